package app

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roman-kulish/attitude-survey/internal/logfile"
)

type Config struct {
	DBPath    string
	InputFile string
	Name      string
	Schema    logfile.Schema
	ChunkSize int
	List      bool
	Verbose   bool
}

func NewConfig() *Config {
	return &Config{
		Schema:    logfile.AccelHFSchema,
		ChunkSize: logfile.DefaultChunkSize,
	}
}

func NewConfigFromCLI(args []string) (*Config, error) {
	c := NewConfig()
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)

	var schema string
	fs.StringVar(&c.DBPath, "db", "", "Path to the database file")
	fs.StringVar(&c.InputFile, "in", "", "Path to the accelerometer log to import")
	fs.StringVar(&c.Name, "name", "", "Session name (defaults to the input file name)")
	fs.StringVar(&schema, "schema", logfile.AccelHFSchema.Name, "Input schema. [accel-hf, accel-dc]")
	fs.IntVar(&c.ChunkSize, "chunk", logfile.DefaultChunkSize, "Rows per chunk and per transaction")
	fs.BoolVar(&c.List, "list", false, "List imported sessions instead of importing")
	fs.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	schema = strings.ToLower(schema)

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if !c.List && c.InputFile == "" {
		err = errors.New("input file is required")
	} else if c.ChunkSize <= 0 {
		err = fmt.Errorf("invalid chunk size: %d", c.ChunkSize)
	} else if schema != logfile.AccelHFSchema.Name && schema != logfile.AccelDCSchema.Name {
		err = fmt.Errorf("invalid schema: %s", schema)
	}

	if err != nil {
		fs.Usage()
		return nil, err
	}

	c.Schema, _ = logfile.SchemaByName(schema)
	if c.Name == "" && c.InputFile != "" {
		c.Name = strings.TrimSuffix(filepath.Base(c.InputFile), filepath.Ext(c.InputFile))
	}
	return c, nil
}
