package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cryptolith/bedrock/internal/shared"
	"github.com/cryptolith/bedrock/pkg/cpuprobe"
	"github.com/cryptolith/bedrock/pkg/mempool"
	"github.com/cryptolith/bedrock/pkg/procenv"
	"github.com/cryptolith/bedrock/pkg/sysclock"
	"github.com/cryptolith/bedrock/pkg/vmem"
)

func NewReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print what the platform layer detected on this host",
		Long: `Inspect the running host the way library consumers see it: locked
memory budget, pool occupancy, CPU capability words, and which clock
sources answered. Degraded facilities show up as zeros or "unavailable"
rather than errors; that is the contract callers get too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			fmt.Fprintln(w, "PROCESS")
			fmt.Fprintf(w, "  hostname\t%s\n", shared.GetHostname())
			fmt.Fprintf(w, "  user\t%s (uid %d)\n", shared.GetUsername(), shared.GetUID())
			fmt.Fprintf(w, "  pid\t%d\n", procenv.ProcessID())
			fmt.Fprintf(w, "  privileged\t%t\n", procenv.RunningPrivileged())
			fmt.Fprintf(w, "  cpus\t%d\n", cpuprobe.AvailableCPUs())

			stats := mempool.Default().Stats()
			fmt.Fprintln(w, "MEMORY")
			fmt.Fprintf(w, "  page size\t%s\n", shared.FormatBytes(vmem.PageSize()))
			fmt.Fprintf(w, "  mlock budget\t%s\n", shared.FormatBytes(vmem.LockingLimit()))
			fmt.Fprintf(w, "  pool pages\t%d (%d blank)\n", stats.Pages, stats.BlankPages)
			fmt.Fprintf(w, "  pool in use\t%s in %d slots\n", shared.FormatBytes(stats.BytesInUse), stats.SlotsInUse)

			fmt.Fprintln(w, "CPU")
			if caps, ok := cpuprobe.ReadHWCap(); ok {
				fmt.Fprintf(w, "  hwcap\t%#x\n", caps.HWCap)
				fmt.Fprintf(w, "  hwcap2\t%#x\n", caps.HWCap2)
			} else {
				fmt.Fprintf(w, "  hwcap\tunavailable\n")
			}
			if flags := cpuFlags(); len(flags) > 0 {
				fmt.Fprintf(w, "  features\t%s\n", strings.Join(flags, " "))
			}

			fmt.Fprintln(w, "CLOCK")
			fmt.Fprintf(w, "  high-res\t%d\n", sysclock.HighResolutionClock())
			if cycles := sysclock.CycleCounter(); cycles != 0 {
				fmt.Fprintf(w, "  cycles\t%d\n", cycles)
			} else {
				fmt.Fprintf(w, "  cycles\tunavailable\n")
			}
			if ns, err := sysclock.SystemTimestampNS(); err != nil {
				fmt.Fprintf(w, "  wall clock\t%v\n", err)
			} else {
				stamp, ferr := sysclock.FormatTime(time.Now(), "%Y-%m-%d %H:%M:%S")
				if ferr != nil {
					stamp = "unavailable"
				}
				fmt.Fprintf(w, "  wall clock\t%s (%d ns)\n", stamp, ns)
			}

			return w.Flush()
		},
	}
}
