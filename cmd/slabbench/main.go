package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fulldump/goconfig"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"

	"github.com/fulldump/slabbench/configuration"
)

var VERSION = "dev"

func main() {

	c := configuration.Default()
	goconfig.Read(c)

	if c.Version {
		fmt.Println("Version:", VERSION)
		return
	}

	if c.ShowConfig {
		if err := writeJSON(os.Stdout, c); err != nil {
			log.Fatalf("ERROR: encode config: %s", err.Error())
		}
	}

	plan, err := NewPlan(c)
	if err != nil {
		log.Fatalf("ERROR: %s", err.Error())
	}

	report := &Report{
		ID:      uuid.NewString(),
		Version: VERSION,
		Started: time.Now().UTC().Format(time.RFC3339),
		Config:  c,
	}

	for _, b := range plan {
		if !c.Json {
			fmt.Println("running", b.Title())
		}
		result, err := b.Run()
		if err != nil {
			log.Fatalf("ERROR: %s: %s", b.Title(), err.Error())
		}
		report.Benchmarks = append(report.Benchmarks, result)
		if !c.Json {
			result.Print()
		}
	}

	if c.Json {
		if err := writeJSON(os.Stdout, report); err != nil {
			log.Fatalf("ERROR: encode report: %s", err.Error())
		}
		return
	}

	fmt.Println("run:", report.ID, "benchmarks:", len(report.Benchmarks))
}

func writeJSON(w io.Writer, v any) error {
	if err := json.MarshalWrite(w, v, jsontext.WithIndent("    ")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func splitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, strings.ToLower(item))
		}
	}
	return items
}
