package capture

import (
	"fmt"

	"golang.org/x/net/bpf"
)

// Filter matches ethernet frames against a BPF program run in userspace.
type Filter struct {
	vm *bpf.VM
}

// NewUDPPortFilter builds a filter equivalent to the pcap expression
// "udp port n" over ethernet framing. IPv4 fragments other than the first
// and IPv6 packets with extension headers are rejected.
func NewUDPPortFilter(port int) (*Filter, error) {
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid udp port: %d", port)
	}
	p := uint32(port)

	vm, err := bpf.NewVM([]bpf.Instruction{
		// EtherType selects the IPv6 or IPv4 leg.
		bpf.LoadAbsolute{Off: 12, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x86dd, SkipFalse: 6},

		// IPv6: next header, then ports at fixed offsets.
		bpf.LoadAbsolute{Off: 20, Size: 1},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x11, SkipFalse: 15},
		bpf.LoadAbsolute{Off: 54, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: p, SkipTrue: 12},
		bpf.LoadAbsolute{Off: 56, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: p, SkipTrue: 10, SkipFalse: 11},

		// IPv4: protocol, fragment guard, then ports behind a variable
		// length header.
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x0800, SkipFalse: 10},
		bpf.LoadAbsolute{Off: 23, Size: 1},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x11, SkipFalse: 8},
		bpf.LoadAbsolute{Off: 20, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpBitsSet, Val: 0x1fff, SkipTrue: 6},
		bpf.LoadMemShift{Off: 14},
		bpf.LoadIndirect{Off: 14, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: p, SkipTrue: 2},
		bpf.LoadIndirect{Off: 16, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: p, SkipFalse: 1},

		bpf.RetConstant{Val: 262144},
		bpf.RetConstant{Val: 0},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble BPF program: %w", err)
	}
	return &Filter{vm: vm}, nil
}

// Match reports whether the frame passes the filter.
func (f *Filter) Match(frame []byte) bool {
	n, err := f.vm.Run(frame)
	return err == nil && n > 0
}
