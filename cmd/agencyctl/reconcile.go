package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nusadigital/agency-site/app"
	"github.com/nusadigital/agency-site/billplz"
	"github.com/nusadigital/agency-site/config"
	"github.com/nusadigital/agency-site/reconcile"
	"github.com/nusadigital/agency-site/repository"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Re-check pending Billplz bills and update their orders",
		Long: `Fetch every order still marked pending that has a Billplz bill id,
read the bill from the gateway and apply the paid/failed/pending mapping.
Use it when callbacks were lost.`,
		RunE: runReconcile,
	}

	cmd.Flags().Bool("dry-run", false, "Report changes without writing them")
	cmd.Flags().IntP("limit", "n", 0, "Maximum bills to check (0 checks every pending bill)")
	cmd.Flags().Int("batch-size", reconcile.DefaultBatchSize, "Pending orders read per page")

	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	bpCfg := app.BillplzConfig(cfg)
	if bpCfg.APIKey == "" {
		return billplz.ErrMissingAPIKey
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	limit, _ := cmd.Flags().GetInt("limit")
	batchSize, _ := cmd.Flags().GetInt("batch-size")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &reconcile.Reconciler{
		Orders:    repository.NewOrderRepository(db),
		Bills:     billplz.NewClient(bpCfg),
		BatchSize: batchSize,
		Limit:     limit,
		DryRun:    dryRun,
	}
	// a partial result is still reported when the run is interrupted
	res, err := r.Run(ctx)

	out := cmd.OutOrStdout()
	for _, ch := range res.Changes {
		verb := "updated"
		if !ch.Applied {
			verb = "would update"
		}
		fmt.Fprintf(out, "%s %s (bill %s): %s -> %s\n", verb, ch.OrderID, ch.BillID, ch.From, ch.To)
	}
	fmt.Fprintf(out, "checked %d, changed %d, failed %d\n", res.Checked, len(res.Changes), res.Failed)
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d bills could not be reconciled", res.Failed)
	}
	return nil
}
