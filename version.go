package main

// Version is the application version, shown in the window title and
// returned by App.GetVersion.
const Version = "0.1.0"
