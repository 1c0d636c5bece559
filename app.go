package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"github.com/ridelens/ridelens/internal/csvparser"
	"github.com/ridelens/ridelens/internal/dashboard"
	"github.com/ridelens/ridelens/internal/database"
	"github.com/ridelens/ridelens/internal/query"
)

// App is the main application struct that Wails binds to the frontend.
// All exported methods become callable from JavaScript.
type App struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	store   database.Store
	catalog *query.Catalog
}

// NewApp creates a new App instance.
func NewApp(log *zap.SugaredLogger) *App {
	return &App{log: log}
}

// startup is called when the app starts. The context is saved
// so we can call runtime methods (dialogs, events, etc.)
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// shutdown is called when the app is closing.
func (a *App) shutdown(ctx context.Context) {
	if a.store != nil {
		a.store.Close()
	}
}

// -- Store lifecycle --

// CloseStore closes the current store and returns to the welcome screen.
func (a *App) CloseStore() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
		a.catalog = nil
	}
}

// StoreInfo contains summary info about the loaded store.
type StoreInfo struct {
	Path      string `json:"path"`
	Table     string `json:"table"`
	RideCount int64  `json:"rideCount"`
	MinDate   string `json:"minDate"`
	MaxDate   string `json:"maxDate"`
}

// OpenStore opens a file dialog and loads an existing SQLite rides database.
func (a *App) OpenStore() (*StoreInfo, error) {
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Open Rides Database",
		Filters: []runtime.FileFilter{
			{DisplayName: "SQLite Database (*.db)", Pattern: "*.db"},
			{DisplayName: "All Files (*.*)", Pattern: "*.*"},
		},
	})
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil // user cancelled
	}

	return a.loadStore(path)
}

// BootstrapFromCSV opens a file dialog for a cleaned ride CSV, materializes
// a new SQLite store from it, and loads the result. This is the recovery
// path when no database exists yet: without a store and without a CSV the
// session cannot proceed.
func (a *App) BootstrapFromCSV() (*StoreInfo, error) {
	csvPath, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Import Ride CSV File",
		Filters: []runtime.FileFilter{
			{DisplayName: "CSV Files (*.csv)", Pattern: "*.csv"},
			{DisplayName: "All Files (*.*)", Pattern: "*.*"},
		},
	})
	if err != nil {
		return nil, err
	}
	if csvPath == "" {
		return nil, nil
	}

	// Validate the CSV header before doing anything
	if err := csvparser.ValidateHeader(csvPath); err != nil {
		return nil, fmt.Errorf("invalid CSV file: %w", err)
	}

	dbPath, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Save Database As",
		DefaultFilename: "rides.db",
		Filters: []runtime.FileFilter{
			{DisplayName: "SQLite Database (*.db)", Pattern: "*.db"},
		},
	})
	if err != nil {
		return nil, err
	}
	if dbPath == "" {
		return nil, nil
	}

	a.CloseStore()

	store, err := database.CreateSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	runtime.EventsEmit(a.ctx, "import:progress", map[string]interface{}{
		"phase": "reading", "message": "Reading CSV file...", "count": 0, "total": 0,
	})
	result, err := csvparser.ReadRides(csvPath, 0, func(count int) {
		runtime.EventsEmit(a.ctx, "import:progress", map[string]interface{}{
			"phase": "reading", "message": fmt.Sprintf("Read %d rides...", count), "count": count, "total": 0,
		})
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	total := len(result.Rides)
	runtime.EventsEmit(a.ctx, "import:progress", map[string]interface{}{
		"phase": "inserting", "message": "Inserting into database...", "count": 0, "total": total,
	})
	_, err = store.InsertRides(result.Rides, func(count int) {
		runtime.EventsEmit(a.ctx, "import:progress", map[string]interface{}{
			"phase": "inserting", "message": fmt.Sprintf("Inserted %d of %d rides...", count, total), "count": count, "total": total,
		})
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("inserting rides: %w", err)
	}

	a.store = store
	a.catalog = query.NewCatalog(store.Table(), store.DateExpr())
	a.log.Infow("bootstrapped store from CSV", "csv", csvPath, "db", dbPath, "rides", total)

	runtime.EventsEmit(a.ctx, "import:progress", map[string]interface{}{
		"phase": "done", "message": fmt.Sprintf("Import complete: %d rides", total), "count": total, "total": total,
	})

	return a.storeInfo()
}

func (a *App) loadStore(path string) (*StoreInfo, error) {
	a.CloseStore()

	driver := "sqlite"
	if strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://") {
		driver = "postgres"
	}

	store, err := database.OpenStore(driver, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a.store = store
	a.catalog = query.NewCatalog(store.Table(), store.DateExpr())
	a.log.Infow("opened store", "path", path, "table", store.Table())
	return a.storeInfo()
}

func (a *App) storeInfo() (*StoreInfo, error) {
	count, err := a.store.CountRides("", nil)
	if err != nil {
		return nil, err
	}

	minDate, maxDate, err := a.store.DateBounds()
	if err != nil {
		// Not fatal, just means an empty table
		minDate, maxDate = "", ""
	}

	return &StoreInfo{
		Path:      a.store.Path(),
		Table:     a.store.Table(),
		RideCount: count,
		MinDate:   minDate,
		MaxDate:   maxDate,
	}, nil
}

// -- Filter widgets --

// FilterOptions holds the values the frontend needs to populate the filter
// sidebar: distinct categorical values and the overall date span.
type FilterOptions struct {
	VehicleTypes   []string `json:"vehicleTypes"`
	Statuses       []string `json:"statuses"`
	PaymentMethods []string `json:"paymentMethods"`
	MinDate        string   `json:"minDate"`
	MaxDate        string   `json:"maxDate"`
}

// GetFilterOptions returns the current filter widget values.
func (a *App) GetFilterOptions() (*FilterOptions, error) {
	if a.store == nil {
		return nil, fmt.Errorf("no database open")
	}

	opts := &FilterOptions{}
	var err error
	if opts.VehicleTypes, err = a.store.DistinctValues("vehicle_type"); err != nil {
		return nil, err
	}
	if opts.Statuses, err = a.store.DistinctValues("booking_status"); err != nil {
		return nil, err
	}
	if opts.PaymentMethods, err = a.store.DistinctValues("payment_method"); err != nil {
		return nil, err
	}
	if opts.MinDate, opts.MaxDate, err = a.store.DateBounds(); err != nil {
		return nil, err
	}
	return opts, nil
}

// -- Query catalog --

// ListQueries returns the catalog entries in fixed order, including which
// entry takes a Top-N value.
func (a *App) ListQueries() ([]query.Entry, error) {
	if a.catalog == nil {
		return nil, fmt.Errorf("no database open")
	}
	return a.catalog.Entries(), nil
}

// RunRequest names a catalog query and carries the filter selection.
// TopN is only consulted by the one entry that needs a limit.
type RunRequest struct {
	Name   string       `json:"name"`
	Filter query.Filter `json:"filter"`
	TopN   int          `json:"topN"`
}

// RunQuery builds the predicate, resolves the named template, and executes
// it, returning the result table. One call is exactly one round trip; no
// retries happen here or below.
func (a *App) RunQuery(req RunRequest) (*database.Result, error) {
	if a.store == nil {
		return nil, fmt.Errorf("no database open")
	}

	entry, err := a.catalog.Get(req.Name)
	if err != nil {
		return nil, err
	}

	where, params := req.Filter.WhereClause(a.store.DateExpr())
	sqlStr, args := query.Resolve(entry.SQL, where, params)
	if entry.NeedsLimit {
		args = append(args, query.ClampTopN(req.TopN))
	}

	start := time.Now()
	res, err := a.store.Query(sqlStr, args)
	if err != nil {
		return nil, err
	}
	a.log.Infow("ran query", "name", req.Name, "rows", len(res.Rows), "duration", time.Since(start))
	return res, nil
}

// Dashboard runs the KPI and chart query set for the current filters.
func (a *App) Dashboard(f query.Filter) (*dashboard.Report, error) {
	if a.store == nil {
		return nil, fmt.Errorf("no database open")
	}
	return dashboard.Run(a.store, &f)
}

// -- Export --

// ExportCSV re-runs the named query and writes the result table to a CSV
// file chosen via save dialog.
func (a *App) ExportCSV(req RunRequest) (string, error) {
	if a.store == nil {
		return "", fmt.Errorf("no database open")
	}

	savePath, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Export to CSV",
		DefaultFilename: "query_result.csv",
		Filters: []runtime.FileFilter{
			{DisplayName: "CSV Files (*.csv)", Pattern: "*.csv"},
		},
	})
	if err != nil {
		return "", err
	}
	if savePath == "" {
		return "", nil // user cancelled
	}

	res, err := a.RunQuery(req)
	if err != nil {
		return "", err
	}

	if err := csvparser.WriteResult(savePath, res); err != nil {
		return "", fmt.Errorf("writing CSV: %w", err)
	}

	a.log.Infow("exported result", "name", req.Name, "rows", len(res.Rows), "path", savePath)
	return fmt.Sprintf("Exported %d rows to %s", len(res.Rows), savePath), nil
}

// GetVersion returns the application version string.
func (a *App) GetVersion() string {
	return Version
}
