// Package check contains the command that validates a race definition
// file without starting a server.
package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pobstone/racesim/pkg/model"
	"github.com/pobstone/racesim/pkg/track"
)

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <race-file>",
		Short: "validates a race definition file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return checkDefinition(model.DefaultDefinition())
			}
			def, err := model.LoadRaceDefinition(args[0])
			if err != nil {
				return err
			}
			return checkDefinition(def)
		},
	}
	return cmd
}

func checkDefinition(def *model.RaceDefinition) error {
	crv, err := track.NewCurve(def.Points)
	if err != nil {
		return err
	}
	lane, err := track.NewPitLane(def.PitLane)
	if err != nil {
		return err
	}

	fmt.Printf("race:       %s (%s)\n", def.Name, def.Location)
	fmt.Printf("laps:       %d\n", def.TotalLaps)
	fmt.Printf("length:     %.0f m (%d control points)\n", crv.Length(), len(def.Points))
	fmt.Printf("drs zones:  %d\n", len(def.DRSZones))
	for i, z := range def.DRSZones {
		fmt.Printf("  zone %d: %.2f - %.2f\n", i+1, z.Start, z.End)
	}
	fmt.Printf("pit lane:   entry %.2f, exit %.2f, %d stop boxes\n",
		lane.Entry, lane.Exit, lane.NumSlots())
	fmt.Printf("teams:      %d\n", len(def.Teams))
	for i, team := range def.Teams {
		fmt.Printf("  #%-3d %-24s %-20s pace %.3f grid %.3f\n",
			team.Number, team.Name, team.Driver, team.Pace, def.StaggerFor(i))
	}
	return nil
}
