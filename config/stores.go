package config

import (
	"context"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctiontypes"
	"github.com/agentbid/auction/modelstore"
)

// OpenModelStore builds the configured backend behind an in-memory cache.
func (c ModelsConfig) OpenModelStore(ctx context.Context, logger lager.Logger) (auctiontypes.ModelStore, error) {
	var store auctiontypes.ModelStore

	switch c.Backend {
	case BackendS3:
		client, err := modelstore.NewS3Client(ctx, c.S3)
		if err != nil {
			return nil, err
		}
		store = modelstore.NewS3Store(logger, client, c.S3.Bucket, c.S3.Prefix)
	default:
		fileStore, err := modelstore.NewFileStore(logger, c.Dir)
		if err != nil {
			return nil, err
		}
		store = fileStore
	}

	if c.CacheSize <= 0 {
		return store, nil
	}
	return modelstore.NewCached(store, c.CacheSize)
}
