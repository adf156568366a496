package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Work with the location cache directly",
	Long:  "Commands for seeding well-known locations and resolving ad-hoc queries against the geocoding gateway.",
}

// -- geo seed --

var (
	seedLocation string
	seedLat      float64
	seedLon      float64
	seedCity     string
	seedCountry  string
)

var geoSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the cache with a known location",
	Long:  "Stores coordinates for a location and its common phrasings without calling the geocoding service.",
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway := initGateway()

		result := gateway.Seed(seedLocation, seedLat, seedLon, seedCity, seedCountry)

		zap.L().Info("location seeded",
			zap.String("location", seedLocation),
			zap.String("address", result.Address),
			zap.Int("cache_entries", gateway.Cache().Len()),
		)
		return nil
	},
}

// -- geo lookup --

var geoLookupCmd = &cobra.Command{
	Use:   "lookup <query>",
	Short: "Resolve a location query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway := initGateway()
		defer gateway.Cache().Flush() //nolint:errcheck

		result := gateway.Resolve(cmd.Context(), args[0])
		if result == nil {
			zap.L().Warn("no match", zap.String("query", args[0]))
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	geoSeedCmd.Flags().StringVar(&seedLocation, "location", "", "location name as it appears in posts (required)")
	geoSeedCmd.Flags().Float64Var(&seedLat, "lat", 0, "latitude (required)")
	geoSeedCmd.Flags().Float64Var(&seedLon, "lon", 0, "longitude (required)")
	geoSeedCmd.Flags().StringVar(&seedCity, "city", "", "city name for the cached address")
	geoSeedCmd.Flags().StringVar(&seedCountry, "country", "", "country name for the cached address")
	_ = geoSeedCmd.MarkFlagRequired("location")
	_ = geoSeedCmd.MarkFlagRequired("lat")
	_ = geoSeedCmd.MarkFlagRequired("lon")

	geoCmd.AddCommand(geoSeedCmd)
	geoCmd.AddCommand(geoLookupCmd)
	rootCmd.AddCommand(geoCmd)
}
