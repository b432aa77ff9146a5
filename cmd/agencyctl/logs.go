package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/nusadigital/agency-site/logstats"
)

func logsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Summarise a day of payment and admin log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			date, _ := cmd.Flags().GetString("date")

			day := time.Now()
			if date != "" {
				var err error
				if day, err = time.Parse("2006-01-02", date); err != nil {
					return err
				}
			}

			stats, err := logstats.AnalyzeDir(dir, day)
			if err != nil {
				return err
			}
			logstats.WriteReport(cmd.OutOrStdout(), stats, time.Now())
			return nil
		},
	}

	cmd.Flags().String("dir", "logs", "Log directory")
	cmd.Flags().String("date", "", "Day to analyse (YYYY-MM-DD, default today)")

	return cmd
}
