package runner

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	simerrors "github.com/AndreyAkinshin/simcheck/internal/errors"
	"github.com/AndreyAkinshin/simcheck/internal/logging"
	"github.com/AndreyAkinshin/simcheck/internal/split"
)

// Coordinator runs a decomposed input: it splits the input into per-partition
// files, runs each partition in ascending order, and sums the partial energies.
type Coordinator struct {
	Serial   Serial
	Splitter split.Splitter
	Log      *logging.Logger
}

// Run splits inputFile into partitions files and returns the element-wise sum
// of their energies together with the last non-zero exit status seen.
func (c *Coordinator) Run(ctx context.Context, dir, inputFile string, partitions int) (Result, error) {
	c.Log.Message("Splitting the input file into %d separate files using the %s utility", partitions, splitterName(c.Splitter))
	c.Log.Message("")

	if err := c.Splitter.Split(ctx, dir, inputFile); err != nil {
		return Result{}, simerrors.Wrap(err, fmt.Sprintf("split %s", inputFile))
	}
	if err := split.VerifyPartitions(dir, inputFile, partitions); err != nil {
		return Result{}, simerrors.Wrap(err, fmt.Sprintf("split %s", inputFile))
	}

	var agg Result
	for i := 0; i < partitions; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		part := split.PartitionFile(inputFile, i)
		res, err := c.Serial.Run(ctx, dir, part)
		if err != nil {
			return Result{}, err
		}
		if res.ExitCode != 0 {
			agg.ExitCode = res.ExitCode
		}

		c.Log.Message("Processor %d results:", i)
		for _, v := range res.Values {
			c.Log.Message("  %.12E", v)
		}
		c.Log.Message("")
		c.Log.Log("partition finished",
			zap.String("input", inputFile),
			zap.Int("partition", i),
			zap.Float64s("values", res.Values))

		agg.Values, err = accumulate(agg.Values, res.Values, i, inputFile)
		if err != nil {
			return Result{}, err
		}
		agg.Output = append(agg.Output, res.Output...)
	}
	return agg, nil
}

// accumulate adds values to agg element-wise. The first partition defines the
// shape; later partitions must match it.
func accumulate(agg, values []float64, partition int, inputFile string) ([]float64, error) {
	if partition == 0 {
		return append([]float64(nil), values...), nil
	}
	if len(values) != len(agg) {
		return nil, simerrors.Aggregation(inputFile, partition, len(agg), len(values))
	}
	for i, v := range values {
		agg[i] += v
	}
	return agg, nil
}

func splitterName(s split.Splitter) string {
	if named, ok := s.(fmt.Stringer); ok {
		return named.String()
	}
	return "splitting"
}

// describe renders a decomposition for log messages, e.g. "2x2x1".
func describe(d split.Decomposition) string {
	parts := make([]string, len(d.Counts))
	for i, n := range d.Counts {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, "x")
}
