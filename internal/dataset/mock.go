package dataset

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// Station is the fixed metadata of a weather station.
type Station struct {
	Name   string
	Number int
	XCor   float64
	YCor   float64
	Lat    float64
	Lon    float64
	Alt    int
	// mean monsoon-month rainfall in mm
	monsoonRain float64
}

// MockStations are the stations used for generated corpora.
var MockStations = []Station{
	{Name: "Barisal", Number: 41950, XCor: 536809.8, YCor: 510151.9, Lat: 22.7, Lon: 90.36, Alt: 4, monsoonRain: 420},
	{Name: "Chittagong", Number: 41978, XCor: 681457.5, YCor: 459218.3, Lat: 22.27, Lon: 91.82, Alt: 33, monsoonRain: 560},
	{Name: "Dhaka", Number: 41923, XCor: 540051.2, YCor: 629561.1, Lat: 23.78, Lon: 90.38, Alt: 8, monsoonRain: 360},
	{Name: "Khulna", Number: 41947, XCor: 448735.0, YCor: 519823.7, Lat: 22.78, Lon: 89.53, Alt: 2, monsoonRain: 330},
	{Name: "Rajshahi", Number: 41895, XCor: 366209.6, YCor: 695148.2, Lat: 24.37, Lon: 88.7, Alt: 20, monsoonRain: 280},
	{Name: "Rangpur", Number: 41859, XCor: 422693.4, YCor: 846601.4, Lat: 25.73, Lon: 89.23, Alt: 34, monsoonRain: 440},
	{Name: "Sylhet", Number: 41891, XCor: 688497.3, YCor: 753940.6, Lat: 24.9, Lon: 91.88, Alt: 35, monsoonRain: 690},
}

// seasonal scales monsoon rainfall for months 1..12.
var seasonal = [13]float64{0, 0.02, 0.05, 0.12, 0.3, 0.65, 1, 1.05, 0.9, 0.7, 0.35, 0.06, 0.02}

// Record is one generated corpus row.
type Record struct {
	Serial int
	Row    domain.FeatureRow
	Flood  int
}

// GenerateMock produces n rows cycling through stations, then months, then
// years starting in 1990. Flood months follow heavy, humid rainfall with a
// small fraction of labels flipped. The same n and seed always produce the
// same rows.
func GenerateMock(n int, seed uint64) []Record {
	rng := rand.New(rand.NewPCG(seed, 0x5eed))
	records := make([]Record, n)
	for i := range records {
		st := MockStations[i%len(MockStations)]
		month := (i/len(MockStations))%12 + 1
		year := 1990 + i/(len(MockStations)*12)

		rain := round1(st.monsoonRain * seasonal[month] * (0.4 + 1.2*rng.Float64()))
		humidity := min(98, 55+int(rain/12)+rng.IntN(12))
		maxTemp := round1(27 + 6*seasonal[month] + 3*rng.Float64())
		minTemp := round1(maxTemp - 6 - 4*rng.Float64())

		flood := 0
		if rain > 0.9*st.monsoonRain && humidity >= 82 {
			flood = 1
		}
		if rng.Float64() < 0.03 {
			flood = 1 - flood
		}

		records[i] = Record{
			Serial: i + 1,
			Row: domain.FeatureRow{
				StationName:      st.Name,
				Year:             float64(year),
				Month:            float64(month),
				MaxTemp:          maxTemp,
				MinTemp:          minTemp,
				Rainfall:         rain,
				RelativeHumidity: float64(humidity),
				WindSpeed:        round1(0.5 + 2.5*rng.Float64()),
				CloudCoverage:    round1(8 * math.Min(1, seasonal[month]+0.2*rng.Float64())),
				BrightSunshine:   round1(9 - 5*seasonal[month] + rng.Float64()),
				StationNumber:    float64(st.Number),
				XCor:             st.XCor,
				YCor:             st.YCor,
				Latitude:         st.Lat,
				Longitude:        st.Lon,
				Alt:              float64(st.Alt),
				Period:           float64(year) + float64(month)/100,
			},
			Flood: flood,
		}
	}
	return records
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// MockFrame lays records out with the corpus column set: serial, the 17
// feature columns, and the label.
func MockFrame(records []Record) dataframe.DataFrame {
	n := len(records)
	serial := make([]int, n)
	names := make([]string, n)
	numeric := make([][]float64, domain.NumFeatures-1)
	for j := range numeric {
		numeric[j] = make([]float64, n)
	}
	labels := make([]int, n)

	for i, rec := range records {
		serial[i] = rec.Serial
		names[i] = rec.Row.StationName
		for j, v := range rec.Row.Numeric() {
			numeric[j][i] = v
		}
		labels[i] = rec.Flood
	}

	cols := []series.Series{
		series.New(serial, series.Int, domain.ColSerial),
		series.New(names, series.String, domain.ColStationName),
	}
	for j, name := range domain.NumericColumns() {
		cols = append(cols, series.New(numeric[j], series.Float, name))
	}
	cols = append(cols, series.New(labels, series.Int, domain.ColLabel))
	return dataframe.New(cols...)
}

// MockCorpus generates an in-memory corpus.
func MockCorpus(n int, seed uint64) *Corpus {
	return FromDataFrame(MockFrame(GenerateMock(n, seed)))
}

// WriteMockCSV writes generated records as a corpus CSV.
func WriteMockCSV(w io.Writer, records []Record) error {
	df := MockFrame(records)
	if df.Err != nil {
		return fmt.Errorf("build mock frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write mock csv: %w", err)
	}
	return nil
}
