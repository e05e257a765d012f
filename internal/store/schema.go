package store

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/studybuddy/ent/schema"
)

const (
	studyHistoriesTable  = "study_histories"
	llmRequestEventTable = "llm_request_events"
)

// Tables are derived from the ent entity definitions in ent/schema, so the
// entity declarations are the only place a column or index is described.
var (
	// StudyHistoriesTable holds one row per packet served to a signed-in user.
	StudyHistoriesTable, historyFields = tableFor(studyHistoriesTable, entschema.StudyHistory{})

	// LLMRequestEventsTable journals every generative model call.
	LLMRequestEventsTable, _ = tableFor(llmRequestEventTable, entschema.LLMRequestEvent{})

	tables = []*schema.Table{
		StudyHistoriesTable,
		LLMRequestEventsTable,
	}
)

// fieldRules carries the per-column checks ent would otherwise run in its
// generated mutation code: string validators and enum membership.
type fieldRules map[string]*field.Descriptor

// check validates v against the named column's declared constraints.
func (r fieldRules) check(table, column string, v any) error {
	d, ok := r[column]
	if !ok {
		return nil
	}
	s, isString := v.(string)
	if d.Info.Type == field.TypeEnum && isString {
		if !slices.ContainsFunc(d.Enums, func(e struct{ N, V string }) bool { return e.V == s }) {
			return fmt.Errorf("%s.%s: invalid enum value %q", table, column, s)
		}
	}
	for _, fn := range d.Validators {
		if validate, ok := fn.(func(string) error); ok && isString {
			if err := validate(s); err != nil {
				return fmt.Errorf("%s.%s: %w", table, column, err)
			}
		}
	}
	return nil
}

// tableFor lays out an entity the way ent's code generator would: mixin
// fields first, an auto-increment integer id unless the entity declares
// its own, and one index per ent.Index named <entity>_<fields...>.
func tableFor(name string, s ent.Interface) (*schema.Table, fieldRules) {
	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := schema.NewTable(name)
	rules := make(fieldRules, len(fields))
	var descs []*field.Descriptor
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			panic(fmt.Sprintf("ent schema %s.%s: %v", name, d.Name, d.Err))
		}
		rules[d.Name] = d
		descs = append(descs, d)
	}

	if i := slices.IndexFunc(descs, func(d *field.Descriptor) bool { return d.Name == "id" }); i >= 0 {
		t.AddPrimary(column(descs[i]))
		descs = slices.Delete(descs, i, i+1)
	} else {
		t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})
	}
	for _, d := range descs {
		t.AddColumn(column(d))
	}

	prefix := strings.ToLower(reflect.TypeOf(s).Name())
	for _, idx := range indexes {
		d := idx.Descriptor()
		t.AddIndex(prefix+"_"+strings.Join(d.Fields, "_"), d.Unique, d.Fields)
	}
	return t, rules
}

func column(d *field.Descriptor) *schema.Column {
	c := &schema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Size:     int64(d.Size),
		Unique:   d.Unique,
		Nullable: d.Optional,
	}
	for _, e := range d.Enums {
		c.Enums = append(c.Enums, e.V)
	}
	// Function defaults such as time.Now are applied by the repositories.
	if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
		c.Default = d.Default
	}
	return c
}
