package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/tradeweave/fixdict/pkg/dict"
)

func main() {
	resourcesDir := flag.String("resources-dir", "resources", "Root of the per-version XML repository files")
	version := flag.String("version", string(dict.DefaultVersion), "Dictionary version to operate on")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	v, ok := dict.ParseVersion(*version)
	if !ok {
		log.Fatalf("unsupported version %q", *version)
	}

	store := dict.NewStore(dict.NewXMLLoader(*resourcesDir), log)
	if err := store.Load(context.Background()); err != nil {
		log.WithError(err).Fatal("failed to load dictionary data")
	}

	switch args[0] {
	case "stats":
		runStats(store)
	case "search":
		if len(args) < 2 {
			log.Fatal("search requires a query")
		}
		runSearch(store, v, args[1])
	case "field":
		if len(args) < 2 {
			log.Fatal("field requires a tag number or name")
		}
		runField(store, v, args[1], log)
	case "message":
		if len(args) < 2 {
			log.Fatal("message requires a MsgType")
		}
		runMessage(store, v, args[1], log)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: fixdictctl [flags] <command> [args]

Commands:
  stats              Print entity counts per dictionary version
  search <query>     Search messages, fields, components and enum values
  field <tag|name>   Print one field with its codeset and usage
  message <msgtype>  Print one message with its resolved contents

Flags:`)
	flag.PrintDefaults()
}

func runStats(store *dict.Store) {
	for _, version := range dict.SupportedVersions() {
		counts := store.Counts(version)
		fmt.Printf("%s:\n", version)
		for _, kind := range []dict.EntityKind{
			dict.KindMessage, dict.KindField, dict.KindComponent, dict.KindEnum,
			dict.KindCodeset, dict.KindCategory, dict.KindSection,
			dict.KindDatatype, dict.KindAbbreviation, dict.KindForm,
		} {
			fmt.Printf("  %-14s %d\n", kind, counts[kind])
		}
	}
}

func runSearch(store *dict.Store, version dict.Version, query string) {
	engine := dict.NewSearchEngine(store)
	results := engine.Search(dict.SearchRequest{
		Query:   query,
		Type:    dict.SearchAll,
		Version: version,
	})
	for _, result := range results {
		fmt.Printf("%-10s %-8s %s\n", result.Type, result.ID, result.Name)
	}
	fmt.Printf("%d results\n", len(results))
}

func runField(store *dict.Store, version dict.Version, ref string, log *logrus.Logger) {
	resolver := dict.NewResolver(store, 16)

	var detail *dict.FieldDetail
	var err error
	if tag, convErr := strconv.Atoi(ref); convErr == nil {
		detail, err = resolver.FieldDetail(version, tag)
	} else {
		detail, err = resolver.FieldDetailByName(version, ref)
	}
	if err != nil {
		log.WithError(err).Fatal("field lookup failed")
	}
	printJSON(detail, log)
}

func runMessage(store *dict.Store, version dict.Version, msgType string, log *logrus.Logger) {
	resolver := dict.NewResolver(store, 16)
	detail, err := resolver.MessageDetail(version, msgType)
	if err != nil {
		log.WithError(err).Fatal("message lookup failed")
	}
	printJSON(detail, log)
}

func printJSON(v any, log *logrus.Logger) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.WithError(err).Fatal("encoding output failed")
	}
	fmt.Println(string(out))
}
