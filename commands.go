package main

import (
	"database/sql"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-ionicdose/config"
	"go-ionicdose/controllers"
	"go-ionicdose/dilution"
	"go-ionicdose/models"
	"go-ionicdose/routes"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve()
		},
	}
}

// serve 校验参考表后启动 HTTP 服务
func (a *app) serve() error {
	if mismatches := dilution.VerifyPublished(a.calc); len(mismatches) > 0 {
		for _, m := range mismatches {
			a.logger.Error("reference table mismatch", zap.String("detail", m.String()))
		}
		return fmt.Errorf("reference table has %d mismatches, run `ionicdose audit`", len(mismatches))
	}
	for _, f := range dilution.AuditCopy(a.calc.Profiles()) {
		a.logger.Warn("dilution copy cannot be derived from ratio", zap.String("detail", f.String()))
	}

	var db *sql.DB
	if a.cfg.Database.Enabled {
		var err error
		db, err = config.InitDB(a.cfg.Database, a.logger)
		if err != nil {
			return err
		}
		defer db.Close()
	} else {
		a.logger.Warn("database disabled, account and record routes are not registered")
	}

	gin.SetMode(a.cfg.Server.Mode)
	r := routes.SetupRouter(routes.Deps{
		DB:        db,
		Calc:      a.calc,
		Logger:    a.logger,
		JWTSecret: a.cfg.Auth.JWTSecret,
		TokenTTL:  a.cfg.TokenTTL(),
	})

	a.logger.Info("starting server",
		zap.String("addr", a.cfg.Server.Addr),
		zap.String("profiles_version", a.profilesVersion),
		zap.Int("profiles", len(a.calc.Profiles())))
	if err := r.Run(a.cfg.Server.Addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func newCalcCmd(a *app) *cobra.Command {
	var in models.DoseInput
	var volume string

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the concentrate dose for a water volume",
		Example: `  ionicdose calc --volume 1 --unit L --app house --mode Stock
  ionicdose calc --volume 50 --unit Gal --app agriculture --mode 1:10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Volume = dilution.Volume(dilution.ParseVolume(volume))
			req, err := in.Request()
			if err != nil {
				return err
			}
			resp := controllers.BuildDoseResponse(a.calc, req)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Summary)
			fmt.Fprintf(out, "ratio %s, %s mL, %s drops\n",
				resp.Application.RatioLabel(), resp.Display.Milliliters, resp.Display.Drops)
			return nil
		},
	}
	cmd.Flags().StringVar(&volume, "volume", "", "target water volume")
	cmd.Flags().StringVar(&in.Unit, "unit", "L", "volume unit: L or Gal")
	cmd.Flags().StringVar(&in.ApplicationID, "app", "", "application id (defaults to the first profile)")
	cmd.Flags().StringVar(&in.ConcentrateMode, "mode", "Stock", "concentrate mode: Stock or 1:10")
	return cmd
}

func newTableCmd(a *app) *cobra.Command {
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the dilution reference table",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := dilution.ParseMode(modeFlag)
			if !ok {
				return fmt.Errorf("unknown mode %q, expected Stock or 1:10", modeFlag)
			}
			return writeTable(cmd.OutOrStdout(), controllers.ReferenceTable(a.calc, mode), mode)
		},
	}
	cmd.Flags().StringVar(&modeFlag, "mode", "Stock", "concentrate mode: Stock or 1:10")
	return cmd
}

func writeTable(w io.Writer, rows []models.ReferenceRowView, mode dilution.Mode) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "APPLICATION\tRATIO\tWATER\t%s\n", mode.Label())
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\n", r.Label, r.Ratio, dilution.FormatVolume(r.CanonicalVolume), r.CanonicalUnit, r.Dose)
	}
	return tw.Flush()
}

func newAuditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check the reference table and marketing copy against the ratio table",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "profiles version %s, %d applications\n", a.profilesVersion, len(a.calc.Profiles()))
			findings := dilution.AuditCopy(a.calc.Profiles())
			for _, f := range findings {
				fmt.Fprintln(out, "copy:", f)
			}
			mismatches := dilution.VerifyPublished(a.calc)
			for _, m := range mismatches {
				fmt.Fprintln(out, "table:", m)
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("reference table has %d mismatches", len(mismatches))
			}
			fmt.Fprintf(out, "reference table consistent, %d copy findings\n", len(findings))
			return nil
		},
	}
}
