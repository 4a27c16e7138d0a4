package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gopwr/adapters/excel"
	"gopwr/adapters/stats/ncf"
	"gopwr/app"
	"gopwr/domain/power"
	"gopwr/internal/config"
	"gopwr/internal/report"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli bundles what every subcommand needs.
type cli struct {
	cfg     *config.Config
	service *app.PowerService
	out     io.Writer

	pretty  bool
	asJSON  bool
	alpha   float64
	ceiling int
}

func newRootCmd(cfg *config.Config, out io.Writer) *cobra.Command {
	c := &cli{
		cfg:     cfg,
		service: app.NewPowerService(ncf.NewEngine(), app.WithCurveWorkers(cfg.Curve.Workers)),
		out:     out,
	}

	rootCmd := &cobra.Command{
		Use:           "gopwr-cli",
		Short:         "Power and sample size for balanced one-way and two-way ANOVA",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().BoolVar(&c.pretty, "pretty", cfg.Defaults.Pretty, "Print a human-readable report")
	rootCmd.PersistentFlags().BoolVar(&c.asJSON, "json", false, "Print the full result as JSON")
	rootCmd.PersistentFlags().Float64Var(&c.alpha, "alpha", cfg.Defaults.Alpha, "Significance level (Type I error probability)")

	powerCmd := &cobra.Command{Use: "power", Short: "Compute achieved power"}
	powerCmd.AddCommand(c.newPowerOneWayCmd(), c.newPowerTwoWayCmd())

	sizeCmd := &cobra.Command{Use: "samplesize", Short: "Compute the minimum per-group sample size"}
	sizeCmd.PersistentFlags().IntVar(&c.ceiling, "ceiling", cfg.Defaults.SearchCeiling, "Number of candidate sizes to try")
	sizeCmd.AddCommand(c.newSampleSizeOneWayCmd(), c.newSampleSizeTwoWayCmd())

	curveCmd := &cobra.Command{Use: "curve", Short: "Evaluate power over a range of per-group sizes"}
	curveCmd.AddCommand(c.newCurveOneWayCmd(), c.newCurveTwoWayCmd())

	rootCmd.AddCommand(powerCmd, sizeCmd, curveCmd)
	return rootCmd
}

// effectFlags registers --f/--delta/--sigma style flags with a suffix.
type effectFlags struct {
	suffix          string
	f, delta, sigma float64
}

func (e *effectFlags) register(cmd *cobra.Command, label string) {
	cmd.Flags().Float64Var(&e.f, "f"+e.suffix, 0, "Effect size"+label)
	cmd.Flags().Float64Var(&e.delta, "delta"+e.suffix, 0, "Smallest mean difference among groups"+label)
	cmd.Flags().Float64Var(&e.sigma, "sigma"+e.suffix, 0, "Standard deviation"+label)
}

func (e *effectFlags) effect(cmd *cobra.Command) power.Effect {
	return power.EffectFromOptional(
		changed(cmd, "f"+e.suffix, e.f),
		changed(cmd, "delta"+e.suffix, e.delta),
		changed(cmd, "sigma"+e.suffix, e.sigma),
	)
}

// requireEffects fails with the flag names when an effect was not given.
func requireEffects(cmd *cobra.Command, effs ...*effectFlags) error {
	for _, e := range effs {
		if !e.effect(cmd).IsSet() {
			return fmt.Errorf("either --f%[1]s or both --delta%[1]s and --sigma%[1]s are required", e.suffix)
		}
	}
	return nil
}

func changed(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func (c *cli) newPowerOneWayCmd() *cobra.Command {
	var k int
	var n float64
	eff := &effectFlags{}

	cmd := &cobra.Command{
		Use:   "oneway",
		Short: "Power of a balanced one-way ANOVA",
		Long: `Power of a balanced one-way ANOVA with k groups of n.

Example: gopwr-cli power oneway --k 5 --n 15 --delta 1.5 --sigma 1`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return requireEffects(cmd, eff) },
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.service.OneWayPower(power.OneWayDesign{
				Groups: k, PerGroup: n, Alpha: c.alpha, Effect: eff.effect(cmd),
			})
			if err != nil {
				return err
			}
			return c.print(res, res.Power, func(r *report.Reporter) error { return r.OneWayPower(res) })
		},
	}
	cmd.Flags().IntVar(&k, "k", 0, "Number of groups")
	cmd.Flags().Float64Var(&n, "n", 0, "Sample size per group")
	eff.register(cmd, "")
	_ = cmd.MarkFlagRequired("k")
	_ = cmd.MarkFlagRequired("n")
	return cmd
}

func (c *cli) newPowerTwoWayCmd() *cobra.Command {
	var a, b int
	var sizeA, sizeB float64
	effA := &effectFlags{suffix: "-a"}
	effB := &effectFlags{suffix: "-b"}

	cmd := &cobra.Command{
		Use:   "twoway",
		Short: "Power of a balanced two-way ANOVA (minimum over both factors)",
		Long: `Power of a balanced two-way ANOVA. Each factor is evaluated with its own
per-group size; the reported power is the smaller of the two.

Example: gopwr-cli power twoway --a 3 --b 3 --size-a 4 --size-b 5 --f-a 0.8 --f-b 0.4`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return requireEffects(cmd, effA, effB) },
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.service.TwoWayPower(power.TwoWayDesign{
				LevelsA: a, LevelsB: b, Alpha: c.alpha, SizeA: sizeA, SizeB: sizeB,
				EffectA: effA.effect(cmd), EffectB: effB.effect(cmd),
			})
			if err != nil {
				return err
			}
			return c.print(res, res.Power, func(r *report.Reporter) error { return r.TwoWayPower(res) })
		},
	}
	cmd.Flags().IntVar(&a, "a", 0, "Number of levels of factor A")
	cmd.Flags().IntVar(&b, "b", 0, "Number of levels of factor B")
	cmd.Flags().Float64Var(&sizeA, "size-a", 0, "Sample size per group for factor A")
	cmd.Flags().Float64Var(&sizeB, "size-b", 0, "Sample size per group for factor B")
	effA.register(cmd, " of factor A")
	effB.register(cmd, " of factor B")
	for _, name := range []string{"a", "b", "size-a", "size-b"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (c *cli) newSampleSizeOneWayCmd() *cobra.Command {
	var k int
	var target float64
	eff := &effectFlags{}

	cmd := &cobra.Command{
		Use:   "oneway",
		Short: "Minimum per-group size for a balanced one-way ANOVA",
		Long: `Smallest per-group size reaching the target power. When no size up to
ceiling+1 reaches it, ceiling+1 is reported.

Example: gopwr-cli samplesize oneway --k 5 --power 0.9 --f 1.5`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return requireEffects(cmd, eff) },
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.service.OneWaySampleSize(power.OneWaySizing{
				Groups: k, Alpha: c.alpha, TargetPower: target, Effect: eff.effect(cmd), Ceiling: c.ceiling,
			})
			if err != nil {
				return err
			}
			return c.print(res, res.N, func(r *report.Reporter) error { return r.OneWaySampleSize(res) })
		},
	}
	cmd.Flags().IntVar(&k, "k", 0, "Number of groups")
	cmd.Flags().Float64Var(&target, "power", 0.8, "Target power (1 - beta)")
	eff.register(cmd, "")
	_ = cmd.MarkFlagRequired("k")
	return cmd
}

func (c *cli) newSampleSizeTwoWayCmd() *cobra.Command {
	var a, b int
	var target float64
	effA := &effectFlags{suffix: "-a"}
	effB := &effectFlags{suffix: "-b"}

	cmd := &cobra.Command{
		Use:   "twoway",
		Short: "Minimum per-group size for a balanced two-way ANOVA",
		Long: `Smallest per-group size for which both factors reach the target power.

Example: gopwr-cli samplesize twoway --a 3 --b 3 --power 0.9 --f-a 0.4 --f-b 0.2`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return requireEffects(cmd, effA, effB) },
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.service.TwoWaySampleSize(power.TwoWaySizing{
				LevelsA: a, LevelsB: b, Alpha: c.alpha, TargetPower: target,
				EffectA: effA.effect(cmd), EffectB: effB.effect(cmd), Ceiling: c.ceiling,
			})
			if err != nil {
				return err
			}
			return c.print(res, res.N, func(r *report.Reporter) error { return r.TwoWaySampleSize(res) })
		},
	}
	cmd.Flags().IntVar(&a, "a", 0, "Number of levels of factor A")
	cmd.Flags().IntVar(&b, "b", 0, "Number of levels of factor B")
	cmd.Flags().Float64Var(&target, "power", 0.8, "Target power (1 - beta)")
	effA.register(cmd, " of factor A")
	effB.register(cmd, " of factor B")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

// curveFlags are shared by both curve commands.
type curveFlags struct {
	from, to int
	target   float64
	xlsx     string
}

func (f *curveFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.from, "from", power.MinSearchSize, "First per-group size")
	cmd.Flags().IntVar(&f.to, "to", 50, "Last per-group size")
	cmd.Flags().Float64Var(&f.target, "target", 0, "Report the first size reaching this power")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "Also write the curve to this .xlsx file")
}

func (f *curveFlags) curveRange() power.CurveRange {
	return power.CurveRange{From: f.from, To: f.to, TargetPower: f.target}
}

func (c *cli) newCurveOneWayCmd() *cobra.Command {
	var k int
	eff := &effectFlags{}
	cf := &curveFlags{}

	cmd := &cobra.Command{
		Use:   "oneway",
		Short: "One-way power over a range of per-group sizes",
		Long: `Example: gopwr-cli curve oneway --k 5 --f 0.4 --from 2 --to 40 --target 0.9 --xlsx curve.xlsx`,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return requireEffects(cmd, eff) },
		RunE: func(cmd *cobra.Command, args []string) error {
			curve, err := c.service.OneWayCurve(cmd.Context(), power.OneWayDesign{
				Groups: k, Alpha: c.alpha, Effect: eff.effect(cmd),
			}, cf.curveRange())
			if err != nil {
				return err
			}
			return c.printCurve(curve, cf.xlsx)
		},
	}
	cmd.Flags().IntVar(&k, "k", 0, "Number of groups")
	eff.register(cmd, "")
	cf.register(cmd)
	_ = cmd.MarkFlagRequired("k")
	return cmd
}

func (c *cli) newCurveTwoWayCmd() *cobra.Command {
	var a, b int
	effA := &effectFlags{suffix: "-a"}
	effB := &effectFlags{suffix: "-b"}
	cf := &curveFlags{}

	cmd := &cobra.Command{
		Use:   "twoway",
		Short: "Two-way power over a range of per-group sizes",
		Long: `Both factors use the same per-group size at each point.

Example: gopwr-cli curve twoway --a 3 --b 3 --f-a 0.4 --f-b 0.2 --from 20 --to 40 --target 0.9`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return requireEffects(cmd, effA, effB) },
		RunE: func(cmd *cobra.Command, args []string) error {
			curve, err := c.service.TwoWayCurve(cmd.Context(), power.TwoWayDesign{
				LevelsA: a, LevelsB: b, Alpha: c.alpha,
				EffectA: effA.effect(cmd), EffectB: effB.effect(cmd),
			}, cf.curveRange())
			if err != nil {
				return err
			}
			return c.printCurve(curve, cf.xlsx)
		},
	}
	cmd.Flags().IntVar(&a, "a", 0, "Number of levels of factor A")
	cmd.Flags().IntVar(&b, "b", 0, "Number of levels of factor B")
	effA.register(cmd, " of factor A")
	effB.register(cmd, " of factor B")
	cf.register(cmd)
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

// print writes a result as JSON, as a report, or as the bare headline value.
func (c *cli) print(result interface{}, headline interface{}, render func(*report.Reporter) error) error {
	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if c.pretty {
		return render(report.New(c.out, true))
	}
	_, err := fmt.Fprintln(c.out, headline)
	return err
}

func (c *cli) printCurve(curve *power.PowerCurve, xlsxPath string) error {
	if xlsxPath != "" {
		if err := excel.NewCurveWriter().WriteFile(curve, xlsxPath); err != nil {
			return err
		}
	}
	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(curve)
	}
	if !c.pretty {
		for _, p := range curve.Points {
			if _, err := fmt.Fprintf(c.out, "%d\t%v\n", p.N, p.Power); err != nil {
				return err
			}
		}
		return nil
	}
	return report.New(c.out, true).Curve(curve)
}
