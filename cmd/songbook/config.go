package main

import (
	"github.com/franz/songbook/internal/search"
	"github.com/spf13/viper"
)

// GetConfigString retrieves a string config value with proper precedence:
// 1. Command-line flag (if set)
// 2. Environment variable (SONGBOOK_*)
// 3. Config file
// 4. Default value
func GetConfigString(key string, defaultValue string) string {
	val := viper.GetString(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// GetConfigInt retrieves an int config value with proper precedence
func GetConfigInt(key string, defaultValue int) int {
	val := viper.GetInt(key)
	if val == 0 {
		return defaultValue
	}
	return val
}

// GetConfigFloat retrieves a float config value with proper precedence
func GetConfigFloat(key string, defaultValue float64) float64 {
	val := viper.GetFloat64(key)
	if val == 0 {
		return defaultValue
	}
	return val
}

// GetConfigBool retrieves a bool config value
func GetConfigBool(key string) bool {
	return viper.GetBool(key)
}

// searchOptions reads the search.* keys.
func searchOptions(defaultBook string) (search.Options, error) {
	scorer, err := search.ScorerByName(GetConfigString("search.scorer", "indel"))
	if err != nil {
		return search.Options{}, err
	}
	return search.Options{
		DefaultBook:    defaultBook,
		Cutoff:         GetConfigFloat("search.cutoff", search.DefaultCutoff),
		Limit:          GetConfigInt("search.limit", search.DefaultLimit),
		MaxQueryLength: GetConfigInt("search.max_query_length", search.DefaultMaxQueryLength),
		Scorer:         scorer,
	}, nil
}
