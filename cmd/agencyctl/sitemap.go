package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nusadigital/agency-site/config"
	"github.com/nusadigital/agency-site/models"
	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/sitemap"
)

func sitemapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Render sitemap.xml from the page policy and published posts",
		RunE:  runSitemap,
	}

	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringP("policy", "P", "", "Sitemap policy file (overrides SITEMAP_POLICY)")
	cmd.Flags().Bool("no-posts", false, "Skip the database and list static pages only")

	return cmd
}

func runSitemap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("policy"); p != "" {
		cfg.SitemapPolicyPath = p
	}

	policy, err := sitemap.LoadPolicy(cfg.SitemapPolicyPath)
	if err != nil {
		return err
	}

	var posts []models.BlogPost
	if noPosts, _ := cmd.Flags().GetBool("no-posts"); !noPosts {
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		posts, _, err = repository.NewBlogRepository(db).ListPublished(context.Background(), 0, 0)
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	set := sitemap.Build(cfg.SiteURL, policy, posts)
	if err := sitemap.Write(out, set); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "sitemap: %d urls\n", len(set.URLs))
	return nil
}
