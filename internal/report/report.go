package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/montanaflynn/stats"

	"gopwr/domain/power"
)

// Reporter renders human-readable summaries of power and sample-size results.
// With Pretty unset every method is a no-op.
type Reporter struct {
	Out    io.Writer
	Pretty bool
}

// New creates a reporter writing to out
func New(out io.Writer, pretty bool) *Reporter {
	return &Reporter{Out: out, Pretty: pretty}
}

// OneWayPower writes the one-way power report.
func (r *Reporter) OneWayPower(res *power.OneWayPower) error {
	return r.emit(OneWayPowerText(res))
}

// OneWaySampleSize writes the one-way sample-size report.
func (r *Reporter) OneWaySampleSize(res *power.OneWaySampleSize) error {
	return r.emit(OneWaySampleSizeText(res))
}

// TwoWayPower writes the two-way power report.
func (r *Reporter) TwoWayPower(res *power.TwoWayPower) error {
	return r.emit(TwoWayPowerText(res))
}

// TwoWaySampleSize writes the two-way sample-size report.
func (r *Reporter) TwoWaySampleSize(res *power.TwoWaySampleSize) error {
	return r.emit(TwoWaySampleSizeText(res))
}

// Curve writes a power curve as a table.
func (r *Reporter) Curve(curve *power.PowerCurve) error {
	return r.emit(CurveText(curve))
}

func (r *Reporter) emit(text string) error {
	if !r.Pretty || r.Out == nil {
		return nil
	}
	_, err := io.WriteString(r.Out, text+"\n")
	return err
}

// OneWayPowerText renders a one-way power result.
func OneWayPowerText(res *power.OneWayPower) string {
	var b strings.Builder
	b.WriteString("\tBalanced one-way analysis of variance power calculation\n\n")
	fmt.Fprintf(&b, "\t\t\t\tk = %d\n", res.Design.Groups)
	fmt.Fprintf(&b, "\t\t\t\tn = %v\n", res.Design.PerGroup)
	writeDerivation(&b, "", res.Design.Effect)
	fmt.Fprintf(&b, "\t  effect_size = %v\n", round4(res.Test.EffectSize))
	fmt.Fprintf(&b, "\t    sig_level = %v\n", res.Design.Alpha)
	fmt.Fprintf(&b, "\t        power = %v\n\n", round4(res.Power))
	b.WriteString("NOTE: n is number in each group\n")
	fmt.Fprintf(&b, "Total sample = %v", res.Test.TotalSample)
	return b.String()
}

// OneWaySampleSizeText renders a one-way sample-size result.
func OneWaySampleSizeText(res *power.OneWaySampleSize) string {
	var b strings.Builder
	b.WriteString("\tBalanced one-way analysis of variance sample size adjustment\n\n")
	fmt.Fprintf(&b, "\t\t\t\tk = %d\n", res.Sizing.Groups)
	writeDerivation(&b, "", res.Sizing.Effect)
	fmt.Fprintf(&b, "\t  effect_size = %v\n", round4(res.EffectSize))
	fmt.Fprintf(&b, "\t    sig_level = %v\n", res.Sizing.Alpha)
	fmt.Fprintf(&b, "\t        power = %v\n", res.Sizing.TargetPower)
	fmt.Fprintf(&b, "\t\t\t\tn = %d\n\n", res.N)
	b.WriteString("NOTE: n is number in each group\n")
	fmt.Fprintf(&b, "Total sample = %d", res.TotalSample())
	if res.Capped() {
		fmt.Fprintf(&b, "\nWARNING: target power not reached within %d candidate sizes", res.Ceiling)
	}
	return b.String()
}

// TwoWayPowerText renders a two-way power result.
func TwoWayPowerText(res *power.TwoWayPower) string {
	var b strings.Builder
	b.WriteString("\tBalanced two-way analysis of variance power calculation\n\n")
	fmt.Fprintf(&b, "\t\t\t\ta = %d\n", res.Design.LevelsA)
	fmt.Fprintf(&b, "\t\t\t\tb = %d\n", res.Design.LevelsB)
	fmt.Fprintf(&b, "\t\t\t  n_A = %v\n", res.Design.SizeA)
	fmt.Fprintf(&b, "\t\t\t  n_B = %v\n", res.Design.SizeB)
	writeDerivation(&b, "_a", res.Design.EffectA)
	writeDerivation(&b, "_b", res.Design.EffectB)
	fmt.Fprintf(&b, "\t    sig_level = %v\n", res.Design.Alpha)
	fmt.Fprintf(&b, "\t\t  power_a = %v\n", round4(res.PowerA))
	fmt.Fprintf(&b, "\t\t  power_b = %v\n", round4(res.PowerB))
	fmt.Fprintf(&b, "\t        power = %v\n\n", round4(res.Power))
	b.WriteString("NOTE: power is the minimum power among two factors")
	return b.String()
}

// TwoWaySampleSizeText renders a two-way sample-size result.
func TwoWaySampleSizeText(res *power.TwoWaySampleSize) string {
	var b strings.Builder
	b.WriteString("\tBalanced two-way analysis of variance sample size adjustment\n\n")
	fmt.Fprintf(&b, "\t\t\t\ta = %d\n", res.Sizing.LevelsA)
	fmt.Fprintf(&b, "\t\t\t\tb = %d\n", res.Sizing.LevelsB)
	writeDerivation(&b, "_a", res.Sizing.EffectA)
	writeDerivation(&b, "_b", res.Sizing.EffectB)
	fmt.Fprintf(&b, "\t    sig_level = %v\n", res.Sizing.Alpha)
	fmt.Fprintf(&b, "\t\t\tpower = %v\n", round4(res.Sizing.TargetPower))
	fmt.Fprintf(&b, "\t\t\t\tn = %d\n\n", res.N)
	fmt.Fprintf(&b, "NOTE: n is number in each group, total sample = %d", res.TotalSample())
	if res.Capped() {
		fmt.Fprintf(&b, "\nWARNING: target power not reached within %d candidate sizes", res.Sizing.Ceiling)
	}
	return b.String()
}

// CurveText renders a power curve, one row per per-group size.
func CurveText(curve *power.PowerCurve) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\tPower curve (%s), n = %d..%d\n\n", curve.Kind, curve.Range.From, curve.Range.To)
	twoWay := curve.Kind == "twoway"
	if twoWay {
		b.WriteString("\tn\tpower\tpower_a\tpower_b\n")
	} else {
		b.WriteString("\tn\tpower\n")
	}
	for _, p := range curve.Points {
		if twoWay {
			fmt.Fprintf(&b, "\t%d\t%v\t%v\t%v\n", p.N, round4(p.Power), round4(p.PowerA), round4(p.PowerB))
			continue
		}
		fmt.Fprintf(&b, "\t%d\t%v\n", p.N, round4(p.Power))
	}
	fmt.Fprintf(&b, "\nmin power = %v, max power = %v", round4(curve.MinPower), round4(curve.MaxPower))
	if curve.Range.TargetPower > 0 {
		if curve.Reaching > 0 {
			fmt.Fprintf(&b, "\npower %v first reached at n = %d", curve.Range.TargetPower, curve.Reaching)
		} else {
			fmt.Fprintf(&b, "\npower %v not reached in range", curve.Range.TargetPower)
		}
	}
	return b.String()
}

// writeDerivation lists delta and sigma for an effect size derived from them.
func writeDerivation(b *strings.Builder, suffix string, e power.Effect) {
	if !e.IsDerived() {
		return
	}
	fmt.Fprintf(b, "\t\t  delta%s = %v\n", suffix, e.Delta())
	fmt.Fprintf(b, "\t\t  sigma%s = %v\n", suffix, e.Sigma())
}

func round4(v float64) float64 {
	r, err := stats.Round(v, 4)
	if err != nil {
		return v
	}
	return r
}
