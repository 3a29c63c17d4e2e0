package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/common/version"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/arraykit/parquetbridge/pkg/columnio"
)

var cfg struct {
	verbose bool
	read    struct {
		batchSize int
	}
	write struct {
		rowGroupSize int
		unsigned     bool
		count        int64
	}
}

var (
	consoleOutput = os.Stderr
	logger        = log.NewLogfmtLogger(consoleOutput)
)

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Tooling for the parquet column bridge.").UsageWriter(os.Stdout)
	app.Version(version.Print("pqcli"))
	app.HelpFlag.Short('h')
	app.Flag("verbose", "Enable verbose logging.").Short('v').Default("0").BoolVar(&cfg.verbose)

	inspectCmd := app.Command("inspect", "Inspect a parquet file's structure.")
	inspectFiles := inspectCmd.Arg("file", "parquet file path").Required().ExistingFiles()

	rowcountCmd := app.Command("rowcount", "Print the total row count of a parquet file.")
	rowcountFile := rowcountCmd.Arg("file", "parquet file path").Required().ExistingFile()

	dtypeCmd := app.Command("dtype", "Print the logical type of a column.")
	dtypeFile := dtypeCmd.Arg("file", "parquet file path").Required().ExistingFile()
	dtypeColumn := dtypeCmd.Arg("column", "column name").Required().String()

	readCmd := app.Command("read", "Read a column and print its values, one per line.")
	readFile := readCmd.Arg("file", "parquet file path").Required().ExistingFile()
	readColumn := readCmd.Arg("column", "column name").Required().String()
	readCmd.Flag("batch-size", "Number of values fetched per batch.").Default("0").IntVar(&cfg.read.batchSize)

	writeCmd := app.Command("write", "Write a new single-column parquet file from integers on stdin.")
	writeFile := writeCmd.Arg("file", "destination parquet file path").Required().String()
	writeColumn := writeCmd.Arg("column", "column name").Required().String()
	writeCmd.Flag("row-group-size", "Number of rows per row group.").Default("65536").IntVar(&cfg.write.rowGroupSize)
	writeCmd.Flag("unsigned", "Annotate the column as unsigned 64-bit.").Default("false").BoolVar(&cfg.write.unsigned)
	writeCmd.Flag("count", "Write the sequence 0..count-1 instead of reading stdin.").Default("0").Int64Var(&cfg.write.count)

	libVersionCmd := app.Command("lib-version", "Print the linked parquet library version.")

	parsedCmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	if !cfg.verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	c := columnio.New(logger, columnio.DefaultConfig(), nil)

	switch parsedCmd {
	case inspectCmd.FullCommand():
		for _, file := range *inspectFiles {
			if err := parquetInspect(os.Stdout, file); err != nil {
				os.Exit(checkError(err))
			}
		}
	case rowcountCmd.FullCommand():
		n, err := c.RowCount(*rowcountFile)
		if err != nil {
			os.Exit(checkError(err))
		}
		fmt.Println(n)
	case dtypeCmd.FullCommand():
		t, err := c.ColumnType(*dtypeFile, *dtypeColumn)
		if err != nil {
			os.Exit(checkError(err))
		}
		fmt.Println(t)
	case readCmd.FullCommand():
		os.Exit(checkError(readColumnValues(c, *readFile, *readColumn)))
	case writeCmd.FullCommand():
		os.Exit(checkError(writeColumnValues(c, *writeFile, *writeColumn)))
	case libVersionCmd.FullCommand():
		fmt.Println(columnio.LibraryVersion())
	default:
		level.Error(logger).Log("msg", "unknown command", "cmd", parsedCmd)
	}
}

func readColumnValues(c *columnio.ColumnIO, path, column string) error {
	n, err := c.RowCount(path)
	if err != nil {
		return err
	}
	dst := make([]int64, n)
	t, err := c.ReadColumn(path, dst, column, cfg.read.batchSize)
	if err != nil {
		return err
	}
	if !t.TransferEligible() {
		return errors.Errorf("column %q has type %s, which is not transfer-eligible", column, t)
	}
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, v := range dst {
		fmt.Fprintln(w, v)
	}
	return nil
}

func writeColumnValues(c *columnio.ColumnIO, path, column string) error {
	var values []int64
	if cfg.write.count > 0 {
		values = make([]int64, cfg.write.count)
		for i := range values {
			values[i] = int64(i)
		}
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			v, err := strconv.ParseInt(line, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "parsing value %q", line)
			}
			values = append(values, v)
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrap(err, "reading values from stdin")
		}
	}
	if err := c.WriteColumn(path, values, column, cfg.write.rowGroupSize, cfg.write.unsigned); err != nil {
		return err
	}
	level.Info(logger).Log("msg", "column written", "path", path, "column", column, "rows", len(values))
	return nil
}

func checkError(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}
