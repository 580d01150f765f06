package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/arf/areacheck/internal/app"
	"github.com/arf/areacheck/internal/application/graph"
	"github.com/arf/areacheck/internal/application/page"
	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/infrastructure/surface"
	"github.com/arf/areacheck/internal/infrastructure/web"
)

const shutdownTimeout = 10 * time.Second

func newSubmitCommand(container *app.Container) *cobra.Command {
	var (
		in     domain.FormInput
		svgOut string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Check one point against the region",
		Example: "  areacheck submit --x 2 --y 1.5 --r 2\n" +
			"  areacheck submit --x -1 --y 0,5 --r 3 --svg graph.svg",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := container.NewSession(shareBase(container.Config.Server.Listen))
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sess.Controller.Start(ctx, nil)

			err = withSpinner(cmd.ErrOrStderr(), quiet, func() error {
				_, err := sess.Controller.Submit(ctx, in)
				return err
			})
			return finishSession(cmd.OutOrStdout(), sess, svgOut, err)
		},
	}

	cmd.Flags().StringVar(&in.X, "x", "", "X value")
	cmd.Flags().StringVar(&in.Y, "y", "", "Y value (decimal comma accepted)")
	cmd.Flags().StringVar(&in.R, "r", "", "Radius")
	cmd.Flags().StringVar(&svgOut, "svg", "", "Write the graph to this SVG file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress indicator")
	return cmd
}

func newReplayCommand(container *app.Container) *cobra.Command {
	var (
		svgOut string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "replay <link>",
		Short: "Open a shared link and re-run its submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := url.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid link: %w", err)
			}
			sess, err := container.NewSession(shareBase(container.Config.Server.Listen))
			if err != nil {
				return err
			}

			var mode page.RestoreMode
			err = withSpinner(cmd.ErrOrStderr(), quiet, func() error {
				var err error
				mode, err = sess.Controller.Start(cmd.Context(), link.Query())
				return err
			})
			if err == nil && mode != page.RestoreReplay {
				return errors.New("link does not carry x, y and r")
			}
			return finishSession(cmd.OutOrStdout(), sess, svgOut, err)
		},
	}

	cmd.Flags().StringVar(&svgOut, "svg", "", "Write the graph to this SVG file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress indicator")
	return cmd
}

func newGraphCommand(container *app.Container) *cobra.Command {
	var (
		r, x, y float64
		hit     bool
		out     string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the region diagram as SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			unit := container.Config.Graph.Unit
			if !(unit > 0) {
				unit = domain.DefaultGraphUnit
			}
			g := surface.NewGraph(unit)
			renderer := graph.NewRenderer(g.Layers(), unit)
			renderer.UpdateGraphLabels(r)
			if cmd.Flags().Changed("x") && cmd.Flags().Changed("y") {
				renderer.DrawPoint(x, y, r, hit)
			}

			doc, err := g.Document()
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			}
			if err := os.WriteFile(out, doc, domain.FilePermissions); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Graph written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().Float64Var(&r, "r", domain.DefaultRadius, "Radius driving the tick labels")
	cmd.Flags().Float64Var(&x, "x", 0, "Point X")
	cmd.Flags().Float64Var(&y, "y", 0, "Point Y")
	cmd.Flags().BoolVar(&hit, "hit", false, "Color the point as a hit")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newServeCommand(container *app.Container) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the page in a browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = container.Config.Server.Listen
			}
			srv, err := web.NewServer(web.Options{
				NewSession: func() (*app.Session, error) { return container.NewSession("/") },
				History:    container.HistoryStore,
				Form:       container.Config.Form,
				Logger:     container.Logger,

				MaxSessions: container.Config.Server.MaxSessions,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			httpSrv := srv.NewHTTPServer(listen)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				container.Logger.Info("listening", map[string]interface{}{"addr": listen})
				fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s/\n", listen)
				if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return httpSrv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config)")
	return cmd
}

// withSpinner runs fn while a spinner animates on w.
func withSpinner(w io.Writer, quiet bool, fn func() error) error {
	if quiet {
		return fn()
	}
	s := NewSpinner(w, "contacting calculation service")
	s.Start()
	defer s.Stop()
	return fn()
}

// finishSession prints the page and optionally writes its graph. A failed
// submission that left no result is reported through its page message.
func finishSession(out io.Writer, sess *app.Session, svgOut string, submitErr error) error {
	view := sess.Controller.Snapshot()
	if submitErr != nil && view.Graph.Point == nil {
		if view.Message != "" {
			return errors.New(view.Message)
		}
		return submitErr
	}

	RenderView(out, view)
	if svgOut != "" {
		doc, err := sess.Graph.Document()
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgOut, doc, domain.FilePermissions); err != nil {
			return fmt.Errorf("write %s: %w", svgOut, err)
		}
		fmt.Fprintf(out, "Graph written to %s\n", svgOut)
	}
	return submitErr
}

func shareBase(listen string) string {
	if listen == "" {
		listen = domain.DefaultListenAddr
	}
	return "http://" + listen + "/"
}
