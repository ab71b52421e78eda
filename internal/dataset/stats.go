package dataset

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// StationRainfall is the total rainfall recorded at a station.
type StationRainfall struct {
	Station  string  `json:"Station_Names"`
	Rainfall float64 `json:"Rainfall"`
}

// StationFloods is the number of flood months recorded at a station.
type StationFloods struct {
	Station string `json:"Station_Names"`
	Floods  int    `json:"Flood?"`
}

// MonthlyRainfall is the mean rainfall for a calendar month across all
// stations and years.
type MonthlyRainfall struct {
	Month    int     `json:"Month"`
	Rainfall float64 `json:"Rainfall"`
}

// RainfallFloodRate is the fraction of observations with a given rainfall
// value that were flood months.
type RainfallFloodRate struct {
	Rainfall  float64 `json:"Rainfall"`
	FloodRate float64 `json:"Flood?"`
}

// StationStats holds the chart aggregations for the dashboard.
type StationStats struct {
	Stations                 []StationRainfall   `json:"stations"`
	Floods                   []StationFloods     `json:"floods"`
	MonthlyRainfall          []MonthlyRainfall   `json:"monthly_rainfall"`
	RainfallFloodCorrelation []RainfallFloodRate `json:"rainfall_flood_correlation"`
}

// ComputeStationStats groups the corpus by station, month, and rainfall.
// Every slice is sorted by its key.
func ComputeStationStats(c *Corpus) (StationStats, error) {
	if err := c.Require(domain.ColStationName, domain.ColMonth, domain.ColRainfall, domain.ColLabel); err != nil {
		return StationStats{}, err
	}
	df := c.DataFrame()

	var stats StationStats

	out, err := aggregate(df, domain.ColStationName, domain.ColRainfall, dataframe.Aggregation_SUM)
	if err != nil {
		return StationStats{}, err
	}
	keys, values := out.Col(domain.ColStationName).Records(), aggregated(out, domain.ColStationName)
	for i := range keys {
		stats.Stations = append(stats.Stations, StationRainfall{Station: keys[i], Rainfall: values[i]})
	}
	slices.SortFunc(stats.Stations, func(a, b StationRainfall) int { return cmp.Compare(a.Station, b.Station) })

	out, err = aggregate(df, domain.ColStationName, domain.ColLabel, dataframe.Aggregation_SUM)
	if err != nil {
		return StationStats{}, err
	}
	keys, values = out.Col(domain.ColStationName).Records(), aggregated(out, domain.ColStationName)
	for i := range keys {
		stats.Floods = append(stats.Floods, StationFloods{Station: keys[i], Floods: int(math.Round(values[i]))})
	}
	slices.SortFunc(stats.Floods, func(a, b StationFloods) int { return cmp.Compare(a.Station, b.Station) })

	out, err = aggregate(df, domain.ColMonth, domain.ColRainfall, dataframe.Aggregation_MEAN)
	if err != nil {
		return StationStats{}, err
	}
	months, values := out.Col(domain.ColMonth).Float(), aggregated(out, domain.ColMonth)
	for i := range months {
		stats.MonthlyRainfall = append(stats.MonthlyRainfall, MonthlyRainfall{Month: int(months[i]), Rainfall: values[i]})
	}
	slices.SortFunc(stats.MonthlyRainfall, func(a, b MonthlyRainfall) int { return cmp.Compare(a.Month, b.Month) })

	out, err = aggregate(df, domain.ColRainfall, domain.ColLabel, dataframe.Aggregation_MEAN)
	if err != nil {
		return StationStats{}, err
	}
	rainfall, values := out.Col(domain.ColRainfall).Float(), aggregated(out, domain.ColRainfall)
	for i := range rainfall {
		stats.RainfallFloodCorrelation = append(stats.RainfallFloodCorrelation, RainfallFloodRate{Rainfall: rainfall[i], FloodRate: values[i]})
	}
	slices.SortFunc(stats.RainfallFloodCorrelation, func(a, b RainfallFloodRate) int { return cmp.Compare(a.Rainfall, b.Rainfall) })

	return stats, nil
}

func aggregate(df dataframe.DataFrame, key, value string, typ dataframe.AggregationType) (dataframe.DataFrame, error) {
	groups := df.GroupBy(key)
	if groups.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("group by %s: %w", key, groups.Err)
	}
	out := groups.Aggregation([]dataframe.AggregationType{typ}, []string{value})
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("aggregate %s by %s: %w", value, key, out.Err)
	}
	return out, nil
}

// aggregated returns the single non-key column of a two-column aggregation.
func aggregated(out dataframe.DataFrame, key string) []float64 {
	for _, name := range out.Names() {
		if name != key {
			return out.Col(name).Float()
		}
	}
	return nil
}
