package analysis

import (
	"math"
	"testing"
	"time"

	"stock-trend/src/helpers"
	"stock-trend/src/models"
)

func seriesOf(closes ...float64) models.MPriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.MPriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.MPriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return models.MPriceSeries{Symbol: "TEST", Bars: bars}
}

func TestAggregateThreeBars(t *testing.T) {
	set, err := Aggregate(seriesOf(10, 20, 30), []int{5})
	if err != nil {
		t.Fatal(err)
	}
	ma5, ok := set.Get(5)
	if !ok {
		t.Fatal("MA5 missing")
	}
	want := []float64{10, 15, 20}
	for i := range want {
		if ma5[i] != want[i] {
			t.Errorf("ma5[%d] = %v, want %v", i, ma5[i], want[i])
		}
	}
}

func TestAggregateLengthMatchesSeries(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + float64(i%17)*0.37
	}
	set, err := Aggregate(seriesOf(closes...), []int{5, 20, 60, 120})
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Averages) != 4 {
		t.Fatalf("got %d lines, want 4", len(set.Averages))
	}
	for _, ma := range set.Averages {
		if len(ma.Values) != len(closes) {
			t.Errorf("%s: len %d, want %d", ma.Name, len(ma.Values), len(closes))
		}
	}
	if set.Averages[3].Name != "MA120" {
		t.Errorf("name = %s, want MA120", set.Averages[3].Name)
	}
}

func TestAggregateMatchesDirectMean(t *testing.T) {
	closes := []float64{12.5, 13.1, 11.9, 14.2, 15.0, 14.8, 13.3, 16.1, 17.4, 16.9, 18.2}
	for _, w := range []int{1, 3, 5, 20} {
		set, err := Aggregate(seriesOf(closes...), []int{w})
		if err != nil {
			t.Fatal(err)
		}
		got, _ := set.Get(w)
		for i := range closes {
			lo := i - w + 1
			if lo < 0 {
				lo = 0
			}
			sum := 0.0
			for j := lo; j <= i; j++ {
				sum += closes[j]
			}
			want := sum / float64(i-lo+1)
			if math.Abs(got[i]-want) > 1e-9 {
				t.Errorf("w=%d i=%d: got %v, want %v", w, i, got[i], want)
			}
		}
	}
}

func TestAggregateHasNoLookAhead(t *testing.T) {
	closes := []float64{5, 6, 7, 8, 9, 10, 11, 12}
	before, _ := Aggregate(seriesOf(closes...), []int{3, 5})

	mutated := append([]float64(nil), closes...)
	mutated[6] = 1000
	after, _ := Aggregate(seriesOf(mutated...), []int{3, 5})

	for k := range before.Averages {
		for i := 0; i < 6; i++ {
			if before.Averages[k].Values[i] != after.Averages[k].Values[i] {
				t.Errorf("%s[%d] changed after mutating index 6", before.Averages[k].Name, i)
			}
		}
	}
}

func TestAggregateEmptySeries(t *testing.T) {
	set, err := Aggregate(models.MPriceSeries{Symbol: "NONE"}, []int{5, 20, 60, 120})
	if err != nil {
		t.Fatalf("empty series should not error: %v", err)
	}
	if len(set.Averages) != 4 {
		t.Fatalf("got %d lines, want 4", len(set.Averages))
	}
	for _, ma := range set.Averages {
		if len(ma.Values) != 0 {
			t.Errorf("%s: len %d, want 0", ma.Name, len(ma.Values))
		}
	}
}

func TestAggregateRejectsNonPositiveWindow(t *testing.T) {
	_, err := Aggregate(seriesOf(1, 2), []int{5, 0})
	if !helpers.IsValidation(err) {
		t.Errorf("want ValidationError, got %v", err)
	}
}
