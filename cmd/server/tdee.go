package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/service"
	"github.com/xSteins/PencatatanKalori-sub000/internal/tdee"
)

func newTDEECmd() *cobra.Command {
	var req service.TDEERequest
	cmd := &cobra.Command{
		Use:   "tdee",
		Short: "Print the resting metabolic rate and daily calorie target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := service.ValidateTDEERequest(&req); err != nil {
				return fmt.Errorf("invalid input: %w", err)
			}
			level := internal.ActivityLevel(req.ActivityLevel)
			b := tdee.Explain(req.WeightKg, req.HeightCm, req.Age, internal.Sex(req.Sex), level, req.Offset)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "RMR:        %.2f kcal\n", b.RMR)
			fmt.Fprintf(out, "Multiplier: %.3f (%s)\n", b.Multiplier, level.Label())
			fmt.Fprintf(out, "Offset:     %d kcal\n", b.Offset)
			fmt.Fprintf(out, "Target:     %d kcal/day\n", b.Target)
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&req.WeightKg, "weight", 0, "Body weight in kg")
	f.Float64Var(&req.HeightCm, "height", 0, "Height in cm")
	f.IntVar(&req.Age, "age", 0, "Age in years")
	f.StringVar(&req.Sex, "sex", string(internal.SexMale), "MALE or FEMALE")
	f.StringVar(&req.ActivityLevel, "activity-level", string(internal.ActivityModerate), "SEDENTARY, LIGHT, MODERATE, ACTIVE or VERY_ACTIVE")
	f.IntVar(&req.Offset, "offset", 0, "Granularity offset in kcal (0-500)")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("height")
	_ = cmd.MarkFlagRequired("age")
	return cmd
}
