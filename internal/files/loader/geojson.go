package loader

import (
	"errors"
	"fmt"
	"sort"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// GeometryColumn is the column holding each feature's WKT geometry.
const GeometryColumn = "geometry"

func parseGeoJSON(data []byte) (*ingest.Table, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("invalid feature collection: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected a FeatureCollection, got %q", fc.Type)
	}

	keys := make(map[string]struct{})
	for _, f := range fc.Features {
		for k := range f.Properties {
			keys[k] = struct{}{}
		}
	}
	if _, clash := keys[GeometryColumn]; clash {
		return nil, errors.New("feature property named \"geometry\" clashes with the geometry column")
	}

	columns := make([]string, 0, len(keys)+1)
	for k := range keys {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	columns = append(columns, GeometryColumn)

	table := ingest.NewTable(columns...)
	for _, f := range fc.Features {
		row := make([]any, len(columns))
		for i, c := range columns[:len(columns)-1] {
			row[i] = f.Properties[c]
		}
		if f.Geometry != nil {
			row[len(columns)-1] = wkt.MarshalString(f.Geometry)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
