package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skipbaeanjing/realm/mixed"
	"github.com/skipbaeanjing/realm/mixed/storage"
)

var (
	idColor   = color.New(color.FgCyan, color.Bold)
	kindColor = color.New(color.FgYellow)
)

func main() {
	var dbPath string
	var recordHex string

	flag.StringVar(&dbPath, "db", "", "store path")
	flag.StringVar(&recordHex, "record", "", "dump a single record by hex id")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [store_path]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Dumps the records and polymorphic fields of an embedded store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s mydata.db                          # Dump every record\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -record 65f1a2... mydata.db        # Dump one record\n", os.Args[0])
	}
	flag.Parse()

	if dbPath == "" && flag.NArg() > 0 {
		dbPath = flag.Arg(0)
	}
	if dbPath == "" {
		flag.Usage()
		os.Exit(1)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		log.Fatalf("Store does not exist: %s", dbPath)
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	var ids []storage.RecordID
	if recordHex != "" {
		id, err := primitive.ObjectIDFromHex(recordHex)
		if err != nil {
			log.Fatalf("Bad record id %q: %v", recordHex, err)
		}
		ids = []storage.RecordID{id}
	} else {
		ids, err = store.Records()
		if err != nil {
			log.Fatalf("Failed to list records: %v", err)
		}
	}

	if len(ids) == 0 {
		fmt.Println("No records.")
		return
	}

	for _, id := range ids {
		if err := dumpRecord(store.Record(id)); err != nil {
			log.Fatalf("Failed to dump record %s: %v", id.Hex(), err)
		}
	}
}

func dumpRecord(row *storage.Row) error {
	fields, err := row.Fields()
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", idColor.Sprintf("record %s", row.ID().Hex()))
	if len(fields) == 0 {
		fmt.Println("  (no fields)")
		return nil
	}

	out := &strings.Builder{}
	table := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"field", "type", "value"})

	for _, field := range fields {
		v := row.Mixed(field)
		kind, err := v.Type()
		if err != nil {
			return err
		}
		rendered, err := formatValue(v, kind)
		if err != nil {
			return err
		}
		table.Append([]string{field, kindColor.Sprint(kind.String()), rendered})
	}

	table.Render()
	fmt.Println(out.String())
	return nil
}

// formatValue renders a value's payload for display, dispatching on the
// kind the store just reported.
func formatValue(v mixed.Mixed, kind mixed.ValueKind) (string, error) {
	switch kind {
	case mixed.KindNone:
		return "null", nil
	case mixed.KindInt64:
		i, err := v.AsInt64()
		return fmt.Sprintf("%d", i), err
	case mixed.KindBool:
		b, err := v.AsBool()
		return fmt.Sprintf("%t", b), err
	case mixed.KindFloat32:
		f, err := v.AsFloat32()
		return fmt.Sprintf("%g", f), err
	case mixed.KindFloat64:
		f, err := v.AsFloat64()
		return fmt.Sprintf("%g", f), err
	case mixed.KindString:
		return v.AsString()
	case mixed.KindBinary:
		b, err := v.AsBinary()
		return fmt.Sprintf("0x%x (%d bytes)", b, len(b)), err
	case mixed.KindTimestamp:
		t, err := v.AsTimestamp()
		if err != nil {
			return "", err
		}
		return t.UTC().Format("2006-01-02T15:04:05.000Z"), nil
	case mixed.KindObjectID:
		id, err := v.AsObjectID()
		return id.Hex(), err
	case mixed.KindDecimal128:
		d, err := v.AsDecimal128()
		if err != nil {
			return "", err
		}
		return d.String(), nil
	default:
		return fmt.Sprintf("<%s>", kind), nil
	}
}
