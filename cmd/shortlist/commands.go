package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/sahilchouksey/edu-directory/model"
	"github.com/sahilchouksey/edu-directory/selection"
)

const usage = `usage:
  shortlist fav add <institution|course> <id>
  shortlist fav rm <id>
  shortlist fav ls [institution|course]
  shortlist fav clear
  shortlist cmp add <institution|course> <id>
  shortlist cmp rm <id>
  shortlist cmp ls [institution|course]
  shortlist cmp clear
  shortlist cmp show`

var errUsage = errors.New(usage)

// fetcher loads the entity to snapshot
type fetcher interface {
	Entity(ctx context.Context, kind model.EntityKind, id string) (model.Entity, error)
}

type cli struct {
	manager *selection.Manager
	fetch   fetcher
	out     io.Writer
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}

	var set *selection.Set
	switch args[0] {
	case "fav":
		set = c.manager.Favorites
	case "cmp":
		set = c.manager.Compare
	default:
		return errUsage
	}

	rest := args[2:]
	switch args[1] {
	case "add":
		if len(rest) != 2 {
			return errUsage
		}
		return c.add(ctx, set, model.EntityKind(rest[0]), rest[1])
	case "rm":
		if len(rest) != 1 {
			return errUsage
		}
		removed, err := set.Remove(ctx, rest[0])
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintf(c.out, "removed %s from %s\n", rest[0], set.Name())
		} else {
			fmt.Fprintf(c.out, "%s is not in %s\n", rest[0], set.Name())
		}
		return nil
	case "ls":
		items := set.List()
		if len(rest) == 1 {
			items = set.ListByKind(model.EntityKind(rest[0]))
		}
		c.list(set, items)
		return nil
	case "clear":
		if err := set.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "cleared %s\n", set.Name())
		return nil
	case "show":
		if args[0] != "cmp" {
			return errUsage
		}
		return c.show(set.List())
	}
	return errUsage
}

func (c *cli) add(ctx context.Context, set *selection.Set, kind model.EntityKind, id string) error {
	if set.Contains(id) {
		fmt.Fprintf(c.out, "%s is already in %s\n", id, set.Name())
		return nil
	}
	if kind != model.KindInstitution && kind != model.KindCourse {
		return fmt.Errorf("kind must be institution or course, got %q", kind)
	}

	entity, err := c.fetch.Entity(ctx, kind, id)
	if err != nil {
		return fmt.Errorf("fetch %s %s: %w", kind, id, err)
	}
	item, err := selection.Snapshot(entity)
	if err != nil {
		return err
	}

	added, evicted, err := set.Add(ctx, item)
	if err != nil {
		return err
	}
	if evicted != nil {
		fmt.Fprintf(c.out, "%s is full, dropped %s (%s)\n", set.Name(), evicted.Name, evicted.ID)
	}
	if added {
		fmt.Fprintf(c.out, "added %s to %s\n", item.Name, set.Name())
	}
	return nil
}

func (c *cli) list(set *selection.Set, items []selection.Item) {
	if len(items) == 0 {
		fmt.Fprintf(c.out, "%s is empty\n", set.Name())
		return
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tNAME\tADDED")
	for _, it := range items {
		added := "-"
		if it.AddedAt != nil {
			added = it.AddedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.ID, it.Kind, it.Name, added)
	}
	w.Flush()
}

// snapshotFields are the compare rows, read from the stored snapshot only
var snapshotFields = []struct {
	label string
	value func(it selection.Item, m map[string]any) string
}{
	{"Kind", func(it selection.Item, _ map[string]any) string { return string(it.Kind) }},
	{"Rating", func(_ selection.Item, m map[string]any) string { return number(m["rating"], 1) }},
	{"Reviews", func(_ selection.Item, m map[string]any) string { return number(m["reviewCount"], 0) }},
	{"Type / Level", func(_ selection.Item, m map[string]any) string { return firstText(m["type"], m["level"]) }},
	{"Format", func(_ selection.Item, m map[string]any) string { return firstText(m["format"]) }},
	{"Duration", func(_ selection.Item, m map[string]any) string { return firstText(m["duration"]) }},
	{"Tuition", func(_ selection.Item, m map[string]any) string { return tuition(m) }},
	{"Location", func(_ selection.Item, m map[string]any) string { return location(m) }},
	{"Institution", func(_ selection.Item, m map[string]any) string {
		inst, _ := m["institution"].(map[string]any)
		return firstText(inst["name"])
	}},
}

func (c *cli) show(items []selection.Item) error {
	if len(items) == 0 {
		fmt.Fprintln(c.out, "compare list is empty")
		return nil
	}

	snapshots := make([]map[string]any, len(items))
	for i, it := range items {
		snapshots[i] = map[string]any{}
		if len(it.Data) > 0 {
			if err := json.Unmarshal(it.Data, &snapshots[i]); err != nil {
				return fmt.Errorf("read snapshot of %s: %w", it.ID, err)
			}
		}
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 3, ' ', 0)
	header := []string{""}
	for _, it := range items {
		header = append(header, it.Name)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, f := range snapshotFields {
		row := []string{f.label}
		for i, it := range items {
			v := f.value(it, snapshots[i])
			if v == "" {
				v = "-"
			}
			row = append(row, v)
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func number(v any, precision int) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'f', precision, 64)
}

func firstText(values ...any) string {
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func tuition(m map[string]any) string {
	fee := number(m["tuitionFee"], 0)
	if fee == "" {
		return ""
	}
	if cur := firstText(m["currency"]); cur != "" {
		return cur + " " + fee
	}
	return fee
}

func location(m map[string]any) string {
	var parts []string
	for _, key := range []string{"city", "state", "country"} {
		if s := firstText(m[key]); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		if inst, ok := m["institution"].(map[string]any); ok {
			return location(inst)
		}
	}
	return strings.Join(parts, ", ")
}
