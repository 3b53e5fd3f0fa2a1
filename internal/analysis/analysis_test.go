package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

// risingBars builds a daily series climbing with a small oscillation so every
// indicator has directional and volatility information.
func risingBars(n int) []models.Bar {
	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	price := 100.0
	for i := range bars {
		step := 0.6
		if i%5 == 4 {
			step = -0.2
		}
		price += step
		bars[i] = models.Bar{
			Date:   base.AddDate(0, 0, i),
			Open:   price - 0.3,
			High:   price + 0.4,
			Low:    price - 0.5,
			Close:  price,
			Volume: int64(10000 + (i%7)*500),
		}
	}
	return bars
}

func TestAnalyzeFullSeries(t *testing.T) {
	a := NewAnalyzer(zerolog.Nop())
	bars := risingBars(80)

	report, err := a.Analyze(context.Background(), "AAPL", bars)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.Symbol != "AAPL" {
		t.Errorf("symbol = %s, want AAPL", report.Symbol)
	}
	if !report.Date.Equal(bars[len(bars)-1].Date) {
		t.Errorf("date = %v, want last bar date %v", report.Date, bars[len(bars)-1].Date)
	}
	if report.Indicators == nil {
		t.Error("indicators missing for 80-bar series")
	}
	if report.Trend == nil {
		t.Error("trend missing for 80-bar series")
	}
	if report.Patterns == nil {
		t.Error("patterns missing for 80-bar series")
	}
	if report.Quality == nil {
		t.Error("quality missing for 80-bar series")
	}
	if report.Score == nil {
		t.Fatal("score missing")
	}
	if report.Score.Composite < 0 || report.Score.Composite > 100 {
		t.Errorf("composite = %v outside [0, 100]", report.Score.Composite)
	}
	if !report.Score.HasTechnical || !report.Score.HasTrend || !report.Score.HasPattern {
		t.Error("all three score terms should be present")
	}
}

func TestAnalyzeShortSeriesOmitsIndicators(t *testing.T) {
	a := NewAnalyzer(zerolog.Nop())
	// 10 bars: patterns and the 5/10-day trend horizons run, indicators do not.
	report, err := a.Analyze(context.Background(), "AAPL", risingBars(10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Indicators != nil {
		t.Error("indicators should be omitted below the 30-bar minimum")
	}
	if report.Trend == nil {
		t.Error("trend should still run on 10 bars")
	}
	if report.Score.HasTechnical {
		t.Error("score should not include the indicator term")
	}
}

func TestAnalyzeRejectsInvalidSeries(t *testing.T) {
	a := NewAnalyzer(zerolog.Nop())

	if _, err := a.Analyze(context.Background(), "AAPL", nil); !errors.Is(err, apperrors.ErrInvalidSeries) {
		t.Errorf("empty series: got %v, want ErrInvalidSeries", err)
	}

	bars := risingBars(10)
	bars[3].Date = bars[2].Date // duplicate date
	if _, err := a.Analyze(context.Background(), "AAPL", bars); !errors.Is(err, apperrors.ErrInvalidSeries) {
		t.Errorf("unsorted series: got %v, want ErrInvalidSeries", err)
	}
}

func TestAnalyzeTinySeriesFails(t *testing.T) {
	a := NewAnalyzer(zerolog.Nop())
	_, err := a.Analyze(context.Background(), "AAPL", risingBars(3))
	if !errors.Is(err, apperrors.ErrInsufficientData) {
		t.Errorf("got %v, want ErrInsufficientData", err)
	}
}

func TestToResultFlattensReport(t *testing.T) {
	a := NewAnalyzer(zerolog.Nop())
	bars := risingBars(80)

	report, err := a.Analyze(context.Background(), "AAPL", bars)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	row := report.ToResult()
	if row.Symbol != "AAPL" {
		t.Errorf("symbol = %s, want AAPL", row.Symbol)
	}
	if row.CompositeScore != report.Score.Composite {
		t.Errorf("composite = %v, want %v", row.CompositeScore, report.Score.Composite)
	}
	if row.Recommendation != report.Score.Recommendation {
		t.Errorf("recommendation = %s, want %s", row.Recommendation, report.Score.Recommendation)
	}
	if math.Abs(row.Close-bars[len(bars)-1].Close) > 1e-9 {
		t.Errorf("close = %v, want %v", row.Close, bars[len(bars)-1].Close)
	}
	if row.TrendType == "" {
		t.Error("trend type missing from flattened row")
	}
}

// stubProvider serves canned bar series keyed by symbol.
type stubProvider struct {
	series map[string][]models.Bar
	fails  map[string]error
}

func (p *stubProvider) GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error) {
	if err, ok := p.fails[symbol]; ok {
		return nil, err
	}
	bars, ok := p.series[symbol]
	if !ok {
		return nil, apperrors.ErrSymbolNotFound
	}
	return bars, nil
}

// memorySink collects persisted rows.
type memorySink struct {
	mu   sync.Mutex
	rows []*models.TechnicalResult
}

func (m *memorySink) SaveResult(ctx context.Context, r *models.TechnicalResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, r)
	return nil
}

func TestScreenerRanksAndPersists(t *testing.T) {
	provider := &stubProvider{
		series: map[string][]models.Bar{
			"AAA": risingBars(80),
			"BBB": risingBars(40),
			"CCC": risingBars(60),
		},
	}
	sink := &memorySink{}
	s := NewScreener(NewAnalyzer(zerolog.Nop()), provider, sink, 2, zerolog.Nop())

	results, err := s.Scan(context.Background(), []string{"AAA", "BBB", "CCC"})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted by score: %v before %v", results[i-1].Score, results[i].Score)
		}
	}
	if len(sink.rows) != 3 {
		t.Errorf("persisted %d rows, want 3", len(sink.rows))
	}
}

func TestScreenerContinuesPastFailures(t *testing.T) {
	provider := &stubProvider{
		series: map[string][]models.Bar{
			"GOOD": risingBars(80),
		},
		fails: map[string]error{
			"BAD": fmt.Errorf("connection refused: %w", apperrors.ErrUpstreamUnavailable),
		},
	}
	s := NewScreener(NewAnalyzer(zerolog.Nop()), provider, nil, 2, zerolog.Nop())

	results, err := s.Scan(context.Background(), []string{"BAD", "GOOD"})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (failures kept in output)", len(results))
	}

	var good, bad *ScanResult
	for i := range results {
		switch results[i].Symbol {
		case "GOOD":
			good = &results[i]
		case "BAD":
			bad = &results[i]
		}
	}
	if good == nil || good.Err != nil {
		t.Errorf("GOOD should succeed, got %+v", good)
	}
	if bad == nil || bad.Err == nil {
		t.Error("BAD should carry its error")
	}
}

func TestScreenerMinScoreFiltersSuccesses(t *testing.T) {
	provider := &stubProvider{
		series: map[string][]models.Bar{
			"AAA": risingBars(80),
		},
	}
	s := NewScreener(NewAnalyzer(zerolog.Nop()), provider, nil, 1, zerolog.Nop())
	s.SetMinScore(101) // nothing can reach this

	results, err := s.Scan(context.Background(), []string{"AAA"})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results above an unreachable threshold, want 0", len(results))
	}
}

func TestScreenerEmptyUniverse(t *testing.T) {
	s := NewScreener(NewAnalyzer(zerolog.Nop()), &stubProvider{}, nil, 2, zerolog.Nop())
	results, err := s.Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if results != nil {
		t.Errorf("got %v, want nil for empty universe", results)
	}
}
