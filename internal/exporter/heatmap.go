package exporter

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"aptcli/internal/config"
	"aptcli/internal/errors"
	"aptcli/pkg/contracts/domain"
)

// heatMapTemplate renders a self-contained Leaflet page with a heat layer
// over the listing locations and a marker at the city centre.
const heatMapTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Price per m&sup2; heat map &mdash; {{.City}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map');
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
    attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

var points = {{.Points}};
L.heatLayer(points, {
    radius: {{.Radius}},
    minOpacity: {{.MinOpacity}},
    gradient: {{.Gradient}}
}).addTo(map);

L.marker([{{.CentreLat}}, {{.CentreLon}}]).addTo(map)
    .bindPopup('City centre');

map.fitBounds([[{{.SouthLat}}, {{.WestLon}}], [{{.NorthLat}}, {{.EastLon}}]]);
</script>
</body>
</html>
`

// HeatMapWriter renders the price heat map HTML artifact.
type HeatMapWriter struct {
	logger *slog.Logger
	tmpl   *template.Template
}

func NewHeatMapWriter(logger *slog.Logger) *HeatMapWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeatMapWriter{
		logger: logger,
		tmpl:   template.Must(template.New("heatmap").Parse(heatMapTemplate)),
	}
}

// WriteHeatMap renders the heat map for the given city and points. The map
// is fit to the bounding box of the data, or to the city centre when there
// are no points.
func (w *HeatMapWriter) WriteHeatMap(path, city string, data *domain.HeatData) error {
	points, err := encodePoints(data.Points)
	if err != nil {
		return errors.NewStorageError("failed to encode heat points", err)
	}

	params := struct {
		City       string
		Points     template.JS
		Radius     int
		MinOpacity float64
		Gradient   template.JS
		CentreLat  float64
		CentreLon  float64
		SouthLat   float64
		WestLon    float64
		NorthLat   float64
		EastLon    float64
	}{
		City:       city,
		Points:     points,
		Radius:     config.HeatRadius,
		MinOpacity: config.HeatMinOpacity,
		Gradient:   encodeGradient(config.HeatGradient()),
		CentreLat:  config.CityCentreLat,
		CentreLon:  config.CityCentreLon,
		SouthLat:   data.Bound.Min[1],
		WestLon:    data.Bound.Min[0],
		NorthLat:   data.Bound.Max[1],
		EastLon:    data.Bound.Max[0],
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("path", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create heat map file", err).
			WithContext("path", path)
	}
	defer file.Close()

	if err := w.tmpl.Execute(file, params); err != nil {
		return errors.NewStorageError("failed to render heat map", err).
			WithContext("path", path)
	}

	w.logger.Info("Wrote heat map",
		slog.String("path", path),
		slog.Int("point_count", len(data.Points)))

	return nil
}

// encodePoints serializes points as [lat, lon, weight] triples.
func encodePoints(points []domain.HeatPoint) (template.JS, error) {
	triples := make([][3]float64, len(points))
	for i, p := range points {
		triples[i] = [3]float64{p.Lat, p.Lon, p.Weight}
	}
	encoded, err := json.Marshal(triples)
	if err != nil {
		return "", err
	}
	return template.JS(encoded), nil
}

// encodeGradient serializes the gradient stops in ascending order.
func encodeGradient(gradient map[float64]string) template.JS {
	stops := make([]float64, 0, len(gradient))
	for stop := range gradient {
		stops = append(stops, stop)
	}
	sort.Float64s(stops)

	var b strings.Builder
	b.WriteString("{")
	for i, stop := range stops {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%g: %q", stop, gradient[stop])
	}
	b.WriteString("}")
	return template.JS(b.String())
}
