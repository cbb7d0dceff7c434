package domain

// LoaderOptions carries the configuration identities and data supplied by the build pipeline.
type LoaderOptions struct {
	// ConfigCacheKey identifies Config. Equal keys must carry equal data.
	ConfigCacheKey string
	Config         ConfigData
	// OverrideCacheKey identifies the override set. Each override is memoized
	// under "<OverrideCacheKey>#<index>".
	OverrideCacheKey string
	Overrides        []ConfigData
}

// Request is a single transformation request.
type Request struct {
	Source         string
	InputSourceMap *SourceMap
	CacheKey       string
	Filename       string
	Loader         LoaderOptions
	// RootContext is only used to compute the source file name recorded in maps.
	RootContext string
	SourceMaps  bool
}
