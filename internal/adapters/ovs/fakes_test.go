package ovs

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
)

// fakeExec answers with canned outputs keyed by the joined argv and records
// every call.
type fakeExec struct {
	calls   [][]string
	outputs map[string]string
	errs    map[string]error
}

func (f *fakeExec) Run(_ context.Context, argv []string) (string, error) {
	f.calls = append(f.calls, append([]string(nil), argv...))
	key := strings.Join(argv, " ")
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func (f *fakeExec) callStrings() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, strings.Join(c, " "))
	}
	return out
}

// fakeSwitch keeps just enough switch state to answer ovs-vsctl and
// ovs-ofctl the way the real tools print.
type fakeSwitch struct {
	calls      [][]string
	bridges    map[string][]string
	attrs      map[string]string
	flows      map[string][]string
	nextOFPort int
}

func newFakeSwitch() *fakeSwitch {
	return &fakeSwitch{
		bridges:    map[string][]string{},
		attrs:      map[string]string{},
		flows:      map[string][]string{},
		nextOFPort: 1,
	}
}

func (s *fakeSwitch) fail(argv []string, format string, args ...any) error {
	return &domain.ExternalToolError{Argv: argv, Stderr: fmt.Sprintf(format, args...), Err: fmt.Errorf("exit status 1")}
}

func (s *fakeSwitch) Run(_ context.Context, argv []string) (string, error) {
	s.calls = append(s.calls, append([]string(nil), argv...))
	switch argv[0] {
	case domain.VsctlCommand:
		return s.vsctl(argv, argv[2:])
	case domain.OfctlCommand:
		return s.ofctl(argv)
	}
	return "", s.fail(argv, "%s: command not found", argv[0])
}

func (s *fakeSwitch) vsctl(argv, args []string) (string, error) {
	ifExists := false
	if args[0] == "--" {
		args = args[1:]
	}
	if args[0] == "--if-exists" {
		ifExists = true
		args = args[1:]
	}
	switch args[0] {
	case "add-br":
		if _, ok := s.bridges[args[1]]; ok {
			return "", s.fail(argv, "ovs-vsctl: cannot create a bridge named %s because a bridge named %s already exists", args[1], args[1])
		}
		s.bridges[args[1]] = []string{}
	case "del-br":
		if _, ok := s.bridges[args[1]]; !ok {
			if ifExists {
				return "", nil
			}
			return "", s.fail(argv, "ovs-vsctl: no bridge named %s", args[1])
		}
		delete(s.bridges, args[1])
		delete(s.flows, args[1])
	case "add-port":
		ports, ok := s.bridges[args[1]]
		if !ok {
			return "", s.fail(argv, "ovs-vsctl: no bridge named %s", args[1])
		}
		s.bridges[args[1]] = append(ports, args[2])
		s.attrs["Interface/"+args[2]+"/ofport"] = strconv.Itoa(s.nextOFPort)
		s.nextOFPort++
	case "del-port":
		ports := s.bridges[args[1]]
		for i, p := range ports {
			if p == args[2] {
				s.bridges[args[1]] = append(ports[:i], ports[i+1:]...)
				return "", nil
			}
		}
		if !ifExists {
			return "", s.fail(argv, "ovs-vsctl: no port named %s", args[2])
		}
	case "list-ports":
		ports := append([]string(nil), s.bridges[args[1]]...)
		sort.Strings(ports)
		var b strings.Builder
		for _, p := range ports {
			b.WriteString(p + "\n")
		}
		return b.String(), nil
	case "set":
		col, val, _ := strings.Cut(args[3], "=")
		s.attrs[args[1]+"/"+args[2]+"/"+col] = val
	case "clear":
		delete(s.attrs, args[1]+"/"+args[2]+"/"+args[3])
	case "get":
		val, ok := s.attrs[args[1]+"/"+args[2]+"/"+args[3]]
		if !ok {
			return "", s.fail(argv, "ovs-vsctl: no row %s in table %s", args[2], args[1])
		}
		return val + "\n", nil
	}
	return "", nil
}

func (s *fakeSwitch) ofctl(argv []string) (string, error) {
	cmd, br := argv[1], argv[2]
	if _, ok := s.bridges[br]; !ok {
		return "", s.fail(argv, "ovs-ofctl: %s is not a bridge or a socket", br)
	}
	switch cmd {
	case "add-flow":
		s.flows[br] = append(s.flows[br], argv[3])
	case "del-flows":
		if len(argv) == 3 {
			s.flows[br] = nil
			return "", nil
		}
		kept := []string{}
		for _, f := range s.flows[br] {
			if !strings.Contains(f, argv[3]) {
				kept = append(kept, f)
			}
		}
		s.flows[br] = kept
	case "dump-flows":
		var b strings.Builder
		b.WriteString("NXST_FLOW reply (xid=0x4):\n")
		for _, f := range s.flows[br] {
			b.WriteString(" cookie=0x0, duration=1.5s, table=0, n_packets=0, n_bytes=0, " + f + "\n")
		}
		return b.String(), nil
	}
	return "", nil
}
