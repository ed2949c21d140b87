package ovs

import (
	"context"
	"strings"
)

// DBGetVal returns a column value as printed by ovs-vsctl get.
func (b *Bridge) DBGetVal(ctx context.Context, table, record, column string) (string, error) {
	out, err := b.RunVsctl(ctx, "get", table, record, column)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n\r"), nil
}

// DBGetMap returns a map-typed column such as external_ids or statistics.
func (b *Bridge) DBGetMap(ctx context.Context, table, record, column string) (map[string]string, error) {
	val, err := b.DBGetVal(ctx, table, record, column)
	if err != nil {
		return nil, err
	}
	return ParseDBMap(val), nil
}

// ParseDBMap parses the ovs-vsctl rendering of a map column,
// e.g. {attached-mac="fa:16:3e:00:00:01", iface-id="4f1c"}.
// Entries without '=' are skipped.
func ParseDBMap(s string) map[string]string {
	ret := map[string]string{}
	for _, e := range strings.Split(strings.Trim(s, "{}"), ", ") {
		k, v, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		ret[k] = strings.Trim(v, `"`)
	}
	return ret
}
