package flowsim

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
)

// csvHeader is fixed by the external-interfaces contract; diagnostic
// consumers (spreadsheets, plotting scripts) key off this exact column
// order.
var csvHeader = []string{
	"entity", "name", "volume", "length",
	"pressure_a", "pressure_b", "junction_a", "junction_b",
	"flow_a", "flow_b", "open_a", "open_b",
}

// WritePipeCSV writes one row per pipe, in pipe-id order, to w.
func WritePipeCSV(w io.Writer, net *FlowNet, states map[PipeId]PipeFlowState) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	ids := net.PipeIds()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		def, ok := net.Definition(id)
		if !ok {
			continue
		}
		st, _ := net.State(id)
		flowState := states[id]

		row := []string{
			fmt.Sprintf("%d", id),
			def.Name,
			fmt.Sprintf("%.9g", st.Volume),
			fmt.Sprintf("%.9g", def.Shape.Length),
			fmt.Sprintf("%.9g", flowState.Pressure[PortA.Index()]),
			fmt.Sprintf("%.9g", flowState.Pressure[PortB.Index()]),
			formatOptional(flowState.JunctionPressure[PortA.Index()]),
			formatOptional(flowState.JunctionPressure[PortB.Index()]),
			fmt.Sprintf("%.9g", flowState.Flow[PortA.Index()]),
			fmt.Sprintf("%.9g", flowState.Flow[PortB.Index()]),
			formatBool(st.Valve.Open[PortA.Index()]),
			formatBool(st.Valve.Open[PortB.Index()]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.9g", *v)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// WriteTopologyDOT writes the network's topology as a DOT graph: one box
// node per pipe, one small filled-circle node per junction, edges labelled
// with the pipe's name. Each (pipe, junction) pair is printed once
// regardless of which port attaches it, so a pipe whose both ends share a
// junction (a self-loop) still draws a single edge.
func WriteTopologyDOT(w io.Writer, net *FlowNet) error {
	bw := newDotWriter(w)

	bw.printf("graph FlowNet {\n")

	ids := net.PipeIds()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		def, _ := net.Definition(id)
		bw.printf("  pipe_%d [shape=box,label=%q];\n", id, def.Name)
	}

	juncIDs := make([]int, 0)
	net.Topology().Junctions().Iter(func(j int, _ *map[Port]struct{}) {
		juncIDs = append(juncIDs, j)
	})
	sort.Ints(juncIDs)
	for _, j := range juncIDs {
		bw.printf("  junction_%d [shape=circle,style=filled,width=0.15,label=\"\"];\n", j)
	}

	printed := make(map[[2]int]bool)
	for _, j := range juncIDs {
		for _, port := range net.Topology().Ports(JuncId(j)) {
			key := [2]int{int(port.Pipe), j}
			if printed[key] {
				continue
			}
			printed[key] = true
			def, _ := net.Definition(port.Pipe)
			bw.printf("  pipe_%d -- junction_%d [label=%q];\n", port.Pipe, j, def.Name)
		}
	}

	bw.printf("}\n")
	return bw.err
}

// WriteChunkDetail writes one line per fluid chunk currently stored in
// pipe id's vessel, in vessel order from the port-A end to the port-B end:
// pipe id, chunk index, chunk volume, density,
// viscosity and oxygen saturation. Meant for a capacity-limited subset of
// pipes per tick (see the CLI's dump scheduler), not every pipe every
// tick — full per-chunk detail is far more verbose than the summary CSV
// row.
func WriteChunkDetail(w io.Writer, net *FlowNet, id PipeId) error {
	st, ok := net.State(id)
	if !ok {
		return nil
	}
	for i, c := range st.Vessel.Chunks() {
		_, err := fmt.Fprintf(w, "%d,%d,%.9g,%.9g,%.9g,%.6g\n",
			id, i, c.Volume(), c.Density(), c.Viscosity(), c.Fluid().OxygenSaturation())
		if err != nil {
			return err
		}
	}
	return nil
}

type dotWriter struct {
	w   io.Writer
	err error
}

func newDotWriter(w io.Writer) *dotWriter { return &dotWriter{w: w} }

func (d *dotWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}
