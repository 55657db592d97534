package registry

// defaultParameters is the declared slider set. Paths address the owning
// store: dotted paths for the document stores, bare key tokens for the
// researcher defaults.py pattern store.
func defaultParameters() []Parameter {
	return []Parameter{
		// pipeline config.yaml
		{Key: "iterations_default", Kind: KindInt, Min: 1, Max: 50, Store: StorePipeline, Path: "iterations_default", Default: 1},

		// forge default_config.yaml
		{Key: "grounding.max_results", Kind: KindInt, Min: 1, Max: 20, Store: StoreForge, Path: "grounding.max_results", Default: 5},
		{Key: "google.max_tokens", Kind: KindInt, Min: 256, Max: 8192, Store: StoreForge, Path: "google.max_tokens", Default: 1500},

		// researcher defaults.py
		{Key: "FAST_TOKEN_LIMIT", Kind: KindInt, Min: 500, Max: 8000, Store: StoreResearcher, Path: "FAST_TOKEN_LIMIT", Default: 3000},
		{Key: "SMART_TOKEN_LIMIT", Kind: KindInt, Min: 1000, Max: 16000, Store: StoreResearcher, Path: "SMART_TOKEN_LIMIT", Default: 6000},
		{Key: "STRATEGIC_TOKEN_LIMIT", Kind: KindInt, Min: 1000, Max: 16000, Store: StoreResearcher, Path: "STRATEGIC_TOKEN_LIMIT", Default: 4000},
		{Key: "BROWSE_CHUNK_MAX_LENGTH", Kind: KindInt, Min: 1024, Max: 16384, Store: StoreResearcher, Path: "BROWSE_CHUNK_MAX_LENGTH", Default: 8192},
		{Key: "SUMMARY_TOKEN_LIMIT", Kind: KindInt, Min: 100, Max: 4000, Store: StoreResearcher, Path: "SUMMARY_TOKEN_LIMIT", Default: 700},
		{Key: "TEMPERATURE", Kind: KindFloat, Min: 0, Max: 100, Store: StoreResearcher, Path: "TEMPERATURE", Default: 40, Scale: true},
		{Key: "MAX_SEARCH_RESULTS_PER_QUERY", Kind: KindInt, Min: 1, Max: 20, Store: StoreResearcher, Path: "MAX_SEARCH_RESULTS_PER_QUERY", Default: 5},
		{Key: "TOTAL_WORDS", Kind: KindInt, Min: 300, Max: 5000, Store: StoreResearcher, Path: "TOTAL_WORDS", Default: 1200},
		{Key: "MAX_ITERATIONS", Kind: KindInt, Min: 1, Max: 10, Store: StoreResearcher, Path: "MAX_ITERATIONS", Default: 3},
		{Key: "MAX_SUBTOPICS", Kind: KindInt, Min: 1, Max: 10, Store: StoreResearcher, Path: "MAX_SUBTOPICS", Default: 3},
		{Key: "DEEP_RESEARCH_BREADTH", Kind: KindInt, Min: 1, Max: 10, Store: StoreResearcher, Path: "DEEP_RESEARCH_BREADTH", Default: 4},
		{Key: "DEEP_RESEARCH_DEPTH", Kind: KindInt, Min: 1, Max: 10, Store: StoreResearcher, Path: "DEEP_RESEARCH_DEPTH", Default: 2},

		// agents task.json
		{Key: "max_sections", Kind: KindInt, Min: 1, Max: 10, Store: StoreAgents, Path: "max_sections", Default: 5},
	}
}
