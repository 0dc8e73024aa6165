// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ik5/ldsp/backend/malgo"
	"github.com/ik5/ldsp/config"
	"github.com/ik5/ldsp/sketches"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List malgo playback and capture devices",
	Long: `Devices lists the playback and capture devices miniaudio can open. The
index column is what audio.playback_device and audio.capture_device expect.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := malgo.New(malgo.DefaultOptions(), newLogger(config.LogWarn))
		if err != nil {
			return err
		}
		defer b.Close()

		devs, err := b.Devices()
		if err != nil {
			return err
		}
		return writeDevices(cmd.OutOrStdout(), devs)
	},
}

func writeDevices(w io.Writer, devs []malgo.DeviceInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DIRECTION\tINDEX\tDEFAULT\tNAME")
	for _, d := range devs {
		def := ""
		if d.Default {
			def = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", d.Direction, d.Index, def, d.Name)
	}
	return tw.Flush()
}

var sketchesCmd = &cobra.Command{
	Use:   "sketches",
	Short: "List the built-in sketches",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range sketches.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
