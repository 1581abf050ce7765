package config

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"filevault/internal/logger"
	"filevault/pkg/content"
	contentFs "filevault/pkg/content/fs"
	contentMemory "filevault/pkg/content/memory"
	contentS3 "filevault/pkg/content/s3"
	"filevault/pkg/metadata"
	metadataBadger "filevault/pkg/metadata/badger"
	metadataMemory "filevault/pkg/metadata/memory"
	metadataMongo "filevault/pkg/metadata/mongo"
	"filevault/pkg/session"
	sessionMemory "filevault/pkg/session/memory"
	sessionRedis "filevault/pkg/session/redis"
)

// CreateMetadataStore creates a metadata store from configuration.
//
// The Type field selects the backend; the matching option map is decoded
// with mapstructure and handed to the backend constructor. Construction
// includes connecting, so the returned store is ready or the error is
// final (no lazily-failing handles).
func CreateMetadataStore(ctx context.Context, cfg *MetadataConfig) (metadata.Store, error) {
	switch cfg.Type {
	case "mongo":
		return createMongoMetadataStore(ctx, cfg.Mongo)
	case "badger":
		return createBadgerMetadataStore(cfg.Badger)
	case "memory":
		logger.Warn("using in-memory metadata store; documents will not survive a restart")
		return metadataMemory.NewMemoryMetadataStore(), nil
	default:
		return nil, fmt.Errorf("unknown metadata store type: %q", cfg.Type)
	}
}

// createMongoMetadataStore creates the MongoDB-backed metadata store.
func createMongoMetadataStore(ctx context.Context, options map[string]any) (metadata.Store, error) {
	type MongoStoreConfig struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Database string `mapstructure:"database"`
	}

	var storeCfg MongoStoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode mongo metadata store config: %w", err)
	}

	if storeCfg.Host == "" {
		storeCfg.Host = "localhost"
	}
	if storeCfg.Port == 0 {
		storeCfg.Port = 27017
	}
	if storeCfg.Database == "" {
		storeCfg.Database = "files_manager"
	}

	store, err := metadataMongo.NewMongoMetadataStore(ctx, storeCfg.Host, storeCfg.Port, storeCfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo metadata store: %w", err)
	}
	return store, nil
}

// createBadgerMetadataStore creates the embedded BadgerDB metadata store.
func createBadgerMetadataStore(options map[string]any) (metadata.Store, error) {
	type BadgerStoreConfig struct {
		Path string `mapstructure:"path"`
	}

	var storeCfg BadgerStoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode badger metadata store config: %w", err)
	}

	if storeCfg.Path == "" {
		return nil, fmt.Errorf("badger metadata store: path is required")
	}

	store, err := metadataBadger.NewBadgerMetadataStore(storeCfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger metadata store: %w", err)
	}
	return store, nil
}

// CreateSessionStore creates a session store from configuration.
func CreateSessionStore(ctx context.Context, cfg *SessionsConfig) (session.Store, error) {
	switch cfg.Type {
	case "redis":
		return createRedisSessionStore(ctx, cfg.Redis)
	case "memory":
		logger.Warn("using in-memory session store; tokens will not survive a restart")
		return sessionMemory.NewMemorySessionStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store type: %q", cfg.Type)
	}
}

// createRedisSessionStore creates the Redis-backed session store.
func createRedisSessionStore(ctx context.Context, options map[string]any) (session.Store, error) {
	type RedisStoreConfig struct {
		Addr string `mapstructure:"addr"`
		DB   int    `mapstructure:"db"`
	}

	var storeCfg RedisStoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode redis session store config: %w", err)
	}

	if storeCfg.Addr == "" {
		storeCfg.Addr = "localhost:6379"
	}

	store, err := sessionRedis.NewRedisSessionStore(ctx, storeCfg.Addr, storeCfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis session store: %w", err)
	}
	return store, nil
}

// CreateContentStore creates a content store from configuration.
func CreateContentStore(ctx context.Context, cfg *ContentConfig) (content.Store, error) {
	switch cfg.Type {
	case "filesystem":
		return contentFs.NewFSContentStore(), nil
	case "memory":
		logger.Warn("using in-memory content store; file bytes will not survive a restart")
		return contentMemory.NewMemoryContentStore(), nil
	case "s3":
		return createS3ContentStore(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown content store type: %q", cfg.Type)
	}
}

// createS3ContentStore creates the S3-backed content store.
func createS3ContentStore(ctx context.Context, options map[string]any) (content.Store, error) {
	type S3StoreConfig struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
	}

	var storeCfg S3StoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode s3 content store config: %w", err)
	}

	store, err := contentS3.NewS3ContentStore(ctx, contentS3.Config{
		Region:          storeCfg.Region,
		Bucket:          storeCfg.Bucket,
		KeyPrefix:       storeCfg.KeyPrefix,
		Endpoint:        storeCfg.Endpoint,
		AccessKeyID:     storeCfg.AccessKeyID,
		SecretAccessKey: storeCfg.SecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 content store: %w", err)
	}
	return store, nil
}
