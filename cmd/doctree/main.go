// Doctree document server and CLI
// Stores structured documents with hierarchical sections over HTTP
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nainya/doctree/internal/client"
	"github.com/nainya/doctree/internal/config"
	"github.com/nainya/doctree/internal/fetch"
	"github.com/nainya/doctree/internal/logger"
	"github.com/nainya/doctree/internal/metrics"
	"github.com/nainya/doctree/internal/server"
	"github.com/nainya/doctree/internal/store"
	"github.com/nainya/doctree/pkg/docformat"
	"github.com/nainya/doctree/pkg/document"
	"github.com/nainya/doctree/pkg/editor"
	"github.com/nainya/doctree/pkg/section"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "doctree",
		Short: "Structured document store with hierarchical sections",
	}

	rootCmd.AddCommand(serveCmd(cfg))
	rootCmd.AddCommand(listCmd(cfg))
	rootCmd.AddCommand(getCmd(cfg))
	rootCmd.AddCommand(putCmd(cfg))
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(fetchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd(cfg *config.Config) *cobra.Command {
	var addr, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the document store server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logger.Config{
				Level:  cfg.LogLevel,
				Pretty: cfg.LogPretty,
			})

			if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
				return fmt.Errorf("create db dir: %w", err)
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			log.LogServerStart(addr, dbPath)

			srv := server.New(st, log, metrics.New(), addr)
			httpServer := &http.Server{Addr: addr, Handler: srv.Handler()}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				log.LogServerShutdown()
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				httpServer.Shutdown(ctx)
			}()

			log.LogServerReady(addr)
			if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().StringVar(&dbPath, "db", cfg.DBPath, "database file path")
	return cmd
}

func listCmd(cfg *config.Config) *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := client.New(serverURL).List()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("no documents stored")
				return nil
			}
			for _, info := range infos {
				fmt.Printf("%-40s %-30s %3d sections  updated %s\n",
					info.Name, info.Title, info.Sections,
					info.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", cfg.ServerURL, "server base URL")
	return cmd
}

func getCmd(cfg *config.Config) *cobra.Command {
	var serverURL, output string

	cmd := &cobra.Command{
		Use:   "get [name]",
		Short: "Download a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := client.New(serverURL).Load(args[0])
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = args[0]
			}
			if err := docformat.WriteFile(path, ex); err != nil {
				return err
			}
			fmt.Printf("Saved %s (%d sections)\n", path, ex.Metadata.TotalSections)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", cfg.ServerURL, "server base URL")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path")
	return cmd
}

func putCmd(cfg *config.Config) *cobra.Command {
	var serverURL, name string

	cmd := &cobra.Command{
		Use:   "put [file]",
		Short: "Upload a document file to the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := docformat.ReadFile(args[0])
			if err != nil {
				return err
			}

			stored, err := client.New(serverURL).Save(name, ex)
			if err != nil {
				return err
			}
			fmt.Printf("Stored as %s\n", stored)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", cfg.ServerURL, "server base URL")
	cmd.Flags().StringVar(&name, "name", "", "stored name (default: derived from title)")
	return cmd
}

func showCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print a document's section tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := docformat.ReadFile(args[0])
			if err != nil {
				return err
			}
			ed := editor.Load(ex)

			doc := ed.Document()
			fmt.Printf("%s (%d sections)\n", doc.Title, ed.SectionCount())
			if doc.Description != "" {
				fmt.Printf("  %s\n", doc.Description)
			}

			printTree(ed, ed.FilterSections(filter), 0)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "filter sections by text")
	return cmd
}

func printTree(ed *editor.Editor, nodes []section.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		fmt.Printf("%s- %s", indent, n.Title)
		if n.HasRange() {
			fmt.Printf(" [%d:%d]", n.StartPosition, n.EndPosition)
		}
		if len(n.Categories) > 0 {
			fmt.Printf(" (%s)", strings.Join(n.Categories, ", "))
		}
		fmt.Println()
		if preview := ed.Preview(n.ID); preview != "" {
			fmt.Printf("%s  %q\n", indent, preview)
		}
		printTree(ed, n.Children, depth+1)
	}
}

func fetchCmd() *cobra.Command {
	var title, output string

	cmd := &cobra.Command{
		Use:   "fetch [url]",
		Short: "Import a web page as a new document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !fetch.IsURL(args[0]) {
				return fmt.Errorf("not a URL: %s", args[0])
			}

			page, err := fetch.Fetch(args[0])
			if err != nil {
				return err
			}

			ed := editor.New()
			ed.SetContent(page.Text)
			ed.UpdateMetadata(func(doc *document.Document) {
				doc.Title = page.Title
				if title != "" {
					doc.Title = title
				}
				doc.SourceURL = page.URL
			})

			ex := ed.ToExport()
			path := output
			if path == "" {
				path = docformat.Filename(ed.Document().Title)
			}
			if err := docformat.WriteFile(path, ex); err != nil {
				return err
			}
			fmt.Printf("Imported %s -> %s (%d characters)\n",
				page.URL, path, len([]rune(page.Text)))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "document title (default: page title)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path")
	return cmd
}
