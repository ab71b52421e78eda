package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Corpus column names.
const (
	ColStationName      = "Station_Names"
	ColYear             = "Year"
	ColMonth            = "Month"
	ColMaxTemp          = "Max_Temp"
	ColMinTemp          = "Min_Temp"
	ColRainfall         = "Rainfall"
	ColRelativeHumidity = "Relative_Humidity"
	ColWindSpeed        = "Wind_Speed"
	ColCloudCoverage    = "Cloud_Coverage"
	ColBrightSunshine   = "Bright_Sunshine"
	ColStationNumber    = "Station_Number"
	ColXCor             = "X_COR"
	ColYCor             = "Y_COR"
	ColLatitude         = "LATITUDE"
	ColLongitude        = "LONGITUDE"
	ColAlt              = "ALT"
	ColPeriod           = "Period"

	// ColLabel is the training outcome column.
	ColLabel = "Flood?"
	// ColSerial is a row index column that is not a feature.
	ColSerial = "Sl"
)

// FeatureColumns lists the model input columns in the order the model
// consumes them. The station name is always first.
var FeatureColumns = []string{
	ColStationName,
	ColYear,
	ColMonth,
	ColMaxTemp,
	ColMinTemp,
	ColRainfall,
	ColRelativeHumidity,
	ColWindSpeed,
	ColCloudCoverage,
	ColBrightSunshine,
	ColStationNumber,
	ColXCor,
	ColYCor,
	ColLatitude,
	ColLongitude,
	ColAlt,
	ColPeriod,
}

// NumFeatures is the width of the encoded feature vector.
const NumFeatures = 17

// NumericColumns returns the feature columns after the station name.
func NumericColumns() []string {
	return FeatureColumns[1:]
}

// FeatureRow is a single observation in its raw, pre-encoding form. The JSON
// form is keyed by corpus column names and is shared by every caller of the
// predictor (HTTP, Kafka, CLI).
type FeatureRow struct {
	StationName      string  `json:"Station_Names"`
	Year             float64 `json:"Year"`
	Month            float64 `json:"Month"`
	MaxTemp          float64 `json:"Max_Temp"`
	MinTemp          float64 `json:"Min_Temp"`
	Rainfall         float64 `json:"Rainfall"`
	RelativeHumidity float64 `json:"Relative_Humidity"`
	WindSpeed        float64 `json:"Wind_Speed"`
	CloudCoverage    float64 `json:"Cloud_Coverage"`
	BrightSunshine   float64 `json:"Bright_Sunshine"`
	StationNumber    float64 `json:"Station_Number"`
	XCor             float64 `json:"X_COR"`
	YCor             float64 `json:"Y_COR"`
	Latitude         float64 `json:"LATITUDE"`
	Longitude        float64 `json:"LONGITUDE"`
	Alt              float64 `json:"ALT"`
	Period           float64 `json:"Period"`
}

// Numeric returns the 16 numeric fields in column order.
func (r FeatureRow) Numeric() []float64 {
	return []float64{
		r.Year,
		r.Month,
		r.MaxTemp,
		r.MinTemp,
		r.Rainfall,
		r.RelativeHumidity,
		r.WindSpeed,
		r.CloudCoverage,
		r.BrightSunshine,
		r.StationNumber,
		r.XCor,
		r.YCor,
		r.Latitude,
		r.Longitude,
		r.Alt,
		r.Period,
	}
}

// NewFeatureRow builds a row from a station name and the 16 numeric values in
// column order.
func NewFeatureRow(station string, numeric []float64) (FeatureRow, error) {
	if len(numeric) != NumFeatures-1 {
		return FeatureRow{}, fmt.Errorf("%w: expected %d numeric values, got %d", ErrDataFormat, NumFeatures-1, len(numeric))
	}
	return FeatureRow{
		StationName:      station,
		Year:             numeric[0],
		Month:            numeric[1],
		MaxTemp:          numeric[2],
		MinTemp:          numeric[3],
		Rainfall:         numeric[4],
		RelativeHumidity: numeric[5],
		WindSpeed:        numeric[6],
		CloudCoverage:    numeric[7],
		BrightSunshine:   numeric[8],
		StationNumber:    numeric[9],
		XCor:             numeric[10],
		YCor:             numeric[11],
		Latitude:         numeric[12],
		Longitude:        numeric[13],
		Alt:              numeric[14],
		Period:           numeric[15],
	}, nil
}

// ParseFeatureRow decodes a JSON object keyed by column names. Every feature
// column must be present and non-null; missing columns are reported together.
func ParseFeatureRow(data []byte) (FeatureRow, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return FeatureRow{}, fmt.Errorf("%w: parse feature row: %v", ErrDataFormat, err)
	}

	var missing []string
	for _, col := range FeatureColumns {
		raw, ok := fields[col]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return FeatureRow{}, fmt.Errorf("%w: missing or null columns: %s", ErrDataFormat, strings.Join(missing, ", "))
	}

	var row FeatureRow
	if err := json.Unmarshal(data, &row); err != nil {
		return FeatureRow{}, fmt.Errorf("%w: parse feature row: %v", ErrDataFormat, err)
	}
	return row, nil
}
