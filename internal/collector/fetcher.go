package collector

import (
	"context"

	"MetalBoard/internal/model"
)

// Loader reads the raw dataset for one commodity.
type Loader interface {
	Load(ctx context.Context, commodity model.Commodity) ([]model.RawRecord, error)
	Name() string
}

// DatasetFile is the file name a commodity's dataset is published under.
func DatasetFile(c model.Commodity) string {
	return string(c) + ".json"
}
