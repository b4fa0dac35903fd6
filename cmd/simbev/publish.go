package main

import (
	"fmt"
	"time"

	"github.com/jgoulah/simbev/internal/log"
	"github.com/jgoulah/simbev/internal/publisher"
	"github.com/jgoulah/simbev/pkg/models"
	"github.com/spf13/cobra"
)

var (
	publishRun    string
	publishRegion string
	publishAll    bool
	publishLimit  int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish stored time series over MQTT",
	Long:  `Reads the stored buckets of a run from the database and publishes them to the configured MQTT broker.`,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishRun, "run", "", "Run id to publish (required)")
	publishCmd.Flags().StringVar(&publishRegion, "region", "", "Only publish this region (default: all regions)")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all buckets (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of buckets to publish (0 = no limit)")
	publishCmd.MarkFlagRequired("run")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT is not enabled in config")
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var data []models.Bucket
	if publishAll {
		data, err = db.ListBuckets(publishRun, publishRegion)
	} else {
		data, err = db.ListUnpublishedBuckets(publishRun, publishRegion)
	}
	if err != nil {
		return fmt.Errorf("listing buckets: %w", err)
	}
	if len(data) == 0 {
		fmt.Printf("No buckets to publish for run %s\n", publishRun)
		return nil
	}

	if publishLimit > 0 && len(data) > publishLimit {
		data = data[:publishLimit]
		fmt.Printf("Limiting to %d buckets (--limit flag)\n", publishLimit)
	}

	pub, err := publisher.New(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	fmt.Printf("Publishing %d buckets...\n", len(data))
	published := 0
	for _, b := range data {
		if err := pub.Publish(b); err != nil {
			log.Warnw("publish failed", "region", b.Region, "start", b.Start, "error", err)
			continue
		}
		if err := db.MarkPublished(b.ID); err != nil {
			log.Warnw("failed to mark bucket as published", "id", b.ID, "error", err)
		}
		published++
	}

	fmt.Printf("Successfully published %d/%d buckets\n", published, len(data))
	if published < len(data) {
		return fmt.Errorf("%d buckets failed to publish", len(data)-published)
	}
	return nil
}
