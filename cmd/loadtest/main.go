package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vladislavdragonenkov/ordering/internal/app"
	"github.com/vladislavdragonenkov/ordering/internal/domain"
	ordersvc "github.com/vladislavdragonenkov/ordering/internal/service/order"
)

const (
	loadProductID = "load-product"
	outcomeOK     = "ok"
)

type loadMode string

const (
	modePlace    loadMode = "place"
	modePlaceAdd loadMode = "place-add"
)

type config struct {
	configPath  string
	total       int
	concurrency int
	mode        loadMode
	price       decimal.Decimal
	quantity    int
	customerTag string
	outputPath  string
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type operationReport struct {
	Calls     int64            `json:"calls"`
	Success   int64            `json:"success"`
	Failed    int64            `json:"failed"`
	ErrorRate float64          `json:"error_rate"`
	Outcomes  map[string]int64 `json:"outcomes"`
	LatencyMs latencySummary   `json:"latency_ms"`
}

type report struct {
	StartedAt         time.Time                  `json:"started_at"`
	DurationSeconds   float64                    `json:"duration_seconds"`
	TotalScenarios    int64                      `json:"total_scenarios"`
	SuccessScenarios  int64                      `json:"success_scenarios"`
	FailedScenarios   int64                      `json:"failed_scenarios"`
	ErrorRate         float64                    `json:"error_rate"`
	OPS               float64                    `json:"ops"`
	Revenue           string                     `json:"revenue"`
	ScenarioLatencyMs latencySummary             `json:"scenario_latency_ms"`
	Operations        map[string]operationReport `json:"operations"`
}

type operationStats struct {
	calls     int64
	success   int64
	failed    int64
	outcomes  map[string]int64
	latencies []float64
}

type collector struct {
	mu         sync.Mutex
	operations map[string]*operationStats
}

func newCollector() *collector {
	return &collector{operations: make(map[string]*operationStats)}
}

func (c *collector) record(operation string, latency time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, ok := c.operations[operation]
	if !ok {
		stats = &operationStats{outcomes: make(map[string]int64)}
		c.operations[operation] = stats
	}

	stats.calls++
	if err == nil {
		stats.success++
	} else {
		stats.failed++
	}
	stats.outcomes[outcome(err)]++
	stats.latencies = append(stats.latencies, float64(latency.Microseconds())/1000.0)
}

func (c *collector) buildReport(startedAt time.Time, duration time.Duration) report {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := report{
		StartedAt:       startedAt.UTC(),
		DurationSeconds: duration.Seconds(),
		Operations:      make(map[string]operationReport, len(c.operations)),
	}

	if scenario := c.operations["scenario"]; scenario != nil {
		result.TotalScenarios = scenario.calls
		result.SuccessScenarios = scenario.success
		result.FailedScenarios = scenario.failed
		result.ErrorRate = ratio(scenario.failed, scenario.calls)
		result.ScenarioLatencyMs = buildLatencySummary(scenario.latencies)
	}
	if duration > 0 {
		result.OPS = float64(result.TotalScenarios) / duration.Seconds()
	}

	for name, stats := range c.operations {
		outcomes := make(map[string]int64, len(stats.outcomes))
		for key, count := range stats.outcomes {
			outcomes[key] = count
		}
		result.Operations[name] = operationReport{
			Calls:     stats.calls,
			Success:   stats.success,
			Failed:    stats.failed,
			ErrorRate: ratio(stats.failed, stats.calls),
			Outcomes:  outcomes,
			LatencyMs: buildLatencySummary(stats.latencies),
		}
	}
	return result
}

// outcome сводит ошибку сервиса к метке для отчёта.
func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrOrderUpdateFailed):
		return "update_failed"
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrOrderAlreadyExists),
		errors.Is(err, domain.ErrCustomerAlreadyExists),
		errors.Is(err, domain.ErrProductAlreadyExists):
		return "already_exists"
	case domain.IsInvalidState(err):
		return "invalid_state"
	default:
		return "error"
	}
}

func parseConfig(args []string, output io.Writer) (config, error) {
	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(output)

	var cfg config
	var modeValue, priceValue string
	fs.StringVar(&cfg.configPath, "config", "", "service config file; ORDERING_* env vars apply as well")
	fs.IntVar(&cfg.total, "total", 400, "total scenarios to execute")
	fs.IntVar(&cfg.concurrency, "concurrency", 40, "number of concurrent workers")
	fs.StringVar(&modeValue, "mode", string(modePlace), "load mode: place | place-add")
	fs.StringVar(&priceValue, "price", "10.00", "catalog price of the load product")
	fs.IntVar(&cfg.quantity, "quantity", 1, "quantity per order item")
	fs.StringVar(&cfg.customerTag, "customer-tag", "load", "customer id prefix")
	fs.StringVar(&cfg.outputPath, "output", "", "optional JSON report output file path")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	mode, err := parseMode(modeValue)
	if err != nil {
		return cfg, err
	}
	cfg.mode = mode

	price, err := decimal.NewFromString(strings.TrimSpace(priceValue))
	if err != nil {
		return cfg, fmt.Errorf("parse price: %w", err)
	}
	cfg.price = price

	switch {
	case cfg.total <= 0:
		return cfg, errors.New("total must be > 0")
	case cfg.concurrency <= 0:
		return cfg, errors.New("concurrency must be > 0")
	case !cfg.price.IsPositive():
		return cfg, errors.New("price must be > 0")
	case cfg.quantity <= 0:
		return cfg, errors.New("quantity must be > 0")
	case strings.TrimSpace(cfg.customerTag) == "":
		return cfg, errors.New("customer-tag is required")
	}
	return cfg, nil
}

func parseMode(value string) (loadMode, error) {
	switch loadMode(strings.TrimSpace(value)) {
	case modePlace:
		return modePlace, nil
	case modePlaceAdd:
		return modePlaceAdd, nil
	default:
		return "", fmt.Errorf("unsupported mode: %s", value)
	}
}

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	result, err := run(context.Background(), cfg, os.Stdout)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "load test failed: %v\n", err)
		os.Exit(1)
	}
	if result.FailedScenarios > 0 {
		os.Exit(1)
	}
}

// run поднимает зависимости приложения в процессе и прогоняет сценарии
// оформления заказов параллельно.
func run(ctx context.Context, cfg config, stdout io.Writer) (report, error) {
	appCfg, err := app.LoadConfig(cfg.configPath)
	if err != nil {
		return report{}, err
	}
	logger := log.WithField("component", "loadtest")
	logger.Logger.SetLevel(log.WarnLevel)

	deps, err := app.NewDependencies(ctx, appCfg, logger, prometheus.NewRegistry())
	if err != nil {
		return report{}, err
	}
	defer deps.Close()

	if _, err := deps.ProductService.Create(loadProductID, "Load product", "load test item", cfg.price); err != nil &&
		!errors.Is(err, domain.ErrProductAlreadyExists) {
		return report{}, fmt.Errorf("seed product: %w", err)
	}

	startedAt := time.Now()
	runID := fmt.Sprintf("%d-%d", startedAt.UnixNano(), os.Getpid())
	col := newCollector()

	jobs := make(chan int, cfg.concurrency*2)
	g, gctx := errgroup.WithContext(ctx)
	for worker := 0; worker < cfg.concurrency; worker++ {
		g.Go(func() error {
			for id := range jobs {
				_ = runScenario(deps, cfg, id, runID, col)
			}
			return nil
		})
	}
	dispatchJobs(gctx, jobs, cfg.total)
	_ = g.Wait()

	result := col.buildReport(startedAt, time.Since(startedAt))
	revenue, err := deps.OrderService.Revenue()
	if err != nil {
		return result, fmt.Errorf("revenue: %w", err)
	}
	result.Revenue = revenue.StringFixed(2)

	printReport(stdout, result, cfg)
	if cfg.outputPath != "" {
		if err := writeJSONReport(cfg.outputPath, result); err != nil {
			return result, fmt.Errorf("write report: %w", err)
		}
	}
	return result, nil
}

func dispatchJobs(ctx context.Context, jobs chan<- int, total int) {
	defer close(jobs)
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return
		case jobs <- i:
		}
	}
}

// runScenario заводит отдельного клиента на каждый сценарий: баллы клиента
// обновляются без блокировки, общие клиенты теряли бы начисления.
func runScenario(deps *app.Dependencies, cfg config, index int, runID string, col *collector) (err error) {
	scenarioStart := time.Now()
	defer func() {
		col.record("scenario", time.Since(scenarioStart), err)
	}()

	customerID := fmt.Sprintf("%s-%s-%d", cfg.customerTag, runID, index)
	if err = timed(col, "CreateCustomer", func() error {
		_, err := deps.CustomerService.Create(customerID, "Load customer "+customerID)
		return err
	}); err != nil {
		return err
	}

	items := []ordersvc.ItemRequest{{ProductID: loadProductID, Quantity: cfg.quantity}}
	var order *domain.Order
	if err = timed(col, "PlaceOrder", func() error {
		var err error
		order, err = deps.OrderService.Place(customerID, items)
		return err
	}); err != nil {
		return err
	}

	if cfg.mode == modePlaceAdd {
		err = timed(col, "AddItems", func() error {
			_, err := deps.OrderService.AddItems(order.ID(), items)
			return err
		})
	}
	return err
}

func timed(col *collector, operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	col.record(operation, time.Since(start), err)
	return err
}

func writeJSONReport(path string, result report) error {
	cleanPath := filepath.Clean(path)
	if cleanPath == "." || cleanPath == string(filepath.Separator) {
		return errors.New("output path must point to a file")
	}

	// #nosec G304 -- path is an explicit CLI output parameter for local load-test reports.
	file, err := os.Create(cleanPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func printReport(w io.Writer, result report, cfg config) {
	_, _ = fmt.Fprintln(w, "Load test summary")
	_, _ = fmt.Fprintf(w, "mode=%s total=%d success=%d failed=%d error_rate=%.4f\n",
		cfg.mode,
		result.TotalScenarios,
		result.SuccessScenarios,
		result.FailedScenarios,
		result.ErrorRate,
	)
	_, _ = fmt.Fprintf(w, "duration=%.2fs ops=%.2f revenue=%s\n", result.DurationSeconds, result.OPS, result.Revenue)
	_, _ = fmt.Fprintf(w, "scenario latency ms: min=%.2f avg=%.2f p50=%.2f p95=%.2f p99=%.2f max=%.2f\n",
		result.ScenarioLatencyMs.Min,
		result.ScenarioLatencyMs.Avg,
		result.ScenarioLatencyMs.P50,
		result.ScenarioLatencyMs.P95,
		result.ScenarioLatencyMs.P99,
		result.ScenarioLatencyMs.Max,
	)

	names := make([]string, 0, len(result.Operations))
	for name := range result.Operations {
		if name == "scenario" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats := result.Operations[name]
		_, _ = fmt.Fprintf(w, "%s: calls=%d success=%d failed=%d error_rate=%.4f p95=%.2fms\n",
			name,
			stats.Calls,
			stats.Success,
			stats.Failed,
			stats.ErrorRate,
			stats.LatencyMs.P95,
		)
	}
}

func buildLatencySummary(values []float64) latencySummary {
	if len(values) == 0 {
		return latencySummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, value := range sorted {
		sum += value
	}

	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(sorted, 50),
		P95: percentile(sorted, 95),
		P99: percentile(sorted, 99),
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}

func ratio(failed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(failed) / float64(total)
}
