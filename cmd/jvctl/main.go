package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"example.com/jvgate/internal/catalog"
	"example.com/jvgate/internal/common"
	"example.com/jvgate/internal/export"
	"example.com/jvgate/internal/preset"
	"example.com/jvgate/internal/report"
	"example.com/jvgate/internal/sysex"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	switch os.Args[1] {
	case "decode":
		decodeCmd(os.Args[2:])
	case "encode":
		encodeCmd(os.Args[2:])
	case "export":
		exportCmd(os.Args[2:])
	case "batch":
		batchCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	case "analyze":
		analyzeCmd(os.Args[2:])
	case "list":
		listCmd(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Printf(`jvctl %s (built %s) <command> [options]

Commands:
  decode   --in <capture.syx> [--catalog <map.yaml>] [--device <hex>] [--diagnostics <out.jsonl>] [--metrics] [--progress]
  encode   --group <name> --param <name> (--value <n> | --text <s>) [--slot <n>] [--device <hex>] [--out <file.syx>]
  export   --in <capture.syx> --out-dir <dir> [--format yaml|json] [--catalog <map.yaml>] [--device <hex>]
  batch    --in <dir> --out-dir <dir> [--format yaml|json] [--catalog <map.yaml>] [--device <hex>]
  report   --in <capture.syx> --pdf <bank.pdf> [--json <bank.json>] [--catalog <map.yaml>] [--device <hex>]
  analyze  --in <capture.syx> [--catalog <map.yaml>] [--device <hex>]
  list     [--catalog <map.yaml>] [--group <name>]
`, version, buildDate)
}

func loadCatalog(path string) *catalog.Catalog {
	if path == "" {
		return catalog.Builtin()
	}
	cat, err := catalog.Load(path)
	if err != nil {
		common.Fatalf("load catalog: %v", err)
	}
	return cat
}

func parseDeviceID(s string) byte {
	if s == "" {
		return sysex.DefaultDeviceID
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 8)
	if err != nil {
		common.Fatalf("bad device id %q", s)
	}
	return byte(v)
}

// setupLogs mirrors diagnostics into a rotating file alongside stderr.
func setupLogs(dir string) {
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		common.Fatalf("create log dir: %v", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "jvctl.log"),
		MaxSize:    10,
		MaxAge:     14,
		MaxBackups: 5,
		Compress:   true,
	}
	common.SetLogOutput(io.MultiWriter(os.Stderr, rotator))
}

type decodeResult struct {
	params  []sysex.Parameter
	decoder *sysex.Decoder
	metrics *common.Metrics
}

func decodeFile(path, catalogPath, device string, withMetrics, progress bool) decodeResult {
	cat := loadCatalog(catalogPath)
	dec := sysex.NewDecoder(catalog.BuildIndex(cat))
	dec.SetDeviceID(parseDeviceID(device))
	dec.SetSource(filepath.Base(path))

	f, err := os.Open(path)
	if err != nil {
		common.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var metrics *common.Metrics
	var stopProgress func()
	if withMetrics || progress {
		metrics = common.NewMetrics()
		if info, err := f.Stat(); err == nil {
			metrics.SetTotalBytes(info.Size())
		}
		dec.SetMetrics(metrics)
		metrics.Start()
		if progress {
			stopProgress = common.StartProgressPrinter(os.Stderr, metrics, 500*time.Millisecond)
		}
	}

	params, err := dec.Decode(f)
	if metrics != nil {
		metrics.Stop()
	}
	if stopProgress != nil {
		stopProgress()
	}
	if err != nil {
		common.Fatalf("decode %s: %v", path, err)
	}
	return decodeResult{params: params, decoder: dec, metrics: metrics}
}

func printMetrics(m *common.Metrics) {
	if m == nil {
		return
	}
	snap := m.Snapshot()
	fmt.Printf("Metrics: duration=%s bytes=%s messages=%d parameters=%d drops=%d throughput=%.2f KiB/s\n",
		snap.Duration.Round(time.Millisecond), common.FormatBytes(snap.Bytes),
		snap.Messages, snap.Parameters, snap.Drops,
		snap.ThroughputBytesPerSecond()/1024)
}

func writeDiagnostics(dec *sysex.Decoder, path string) {
	if path == "" {
		return
	}
	if err := sysex.WriteDiagnosticsJSONL(path, dec.Diagnostics()); err != nil {
		common.Fatalf("write diagnostics: %v", err)
	}
}

func decodeCmd(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	in := fs.String("in", "", "input .syx capture")
	catalogPath := fs.String("catalog", "", "parameter map YAML (default: built-in)")
	device := fs.String("device", "", "device id, hex (default 10)")
	diagPath := fs.String("diagnostics", "", "diagnostics JSONL output")
	withMetrics := fs.Bool("metrics", false, "print decode metrics")
	progress := fs.Bool("progress", false, "print progress while decoding")
	logDir := fs.String("log-dir", "", "also log to a rotating file in this directory")
	fs.Parse(args)
	if *in == "" {
		common.Fatalf("decode: --in is required")
	}
	setupLogs(*logDir)

	res := decodeFile(*in, *catalogPath, *device, *withMetrics, *progress)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tGROUP\tPARAMETER\tVALUE")
	for _, p := range res.params {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Address, p.Group, p.Name, p.Value)
	}
	w.Flush()
	writeDiagnostics(res.decoder, *diagPath)
	printMetrics(res.metrics)
}

func encodeCmd(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	group := fs.String("group", "", "parameter group")
	param := fs.String("param", "", "parameter name")
	value := fs.Int("value", -1, "scalar value")
	text := fs.String("text", "", "text value for name fields")
	slot := fs.Int("slot", -1, "bank slot for slot-multiplied groups")
	device := fs.String("device", "", "device id, hex (default 10)")
	catalogPath := fs.String("catalog", "", "parameter map YAML (default: built-in)")
	out := fs.String("out", "", "append message bytes to this file (default: hex to stdout)")
	fs.Parse(args)
	if *group == "" || *param == "" {
		common.Fatalf("encode: --group and --param are required")
	}

	var val sysex.Value
	switch {
	case *text != "":
		val = sysex.Text(*text)
	case *value >= 0:
		val = sysex.Scalar(*value)
	default:
		common.Fatalf("encode: --value or --text is required")
	}

	enc := sysex.NewEncoder(loadCatalog(*catalogPath), parseDeviceID(*device))
	var msg []byte
	var err error
	if *slot >= 0 {
		msg, err = enc.SlotParameterMessage(*group, *param, *slot, val)
	} else {
		msg, err = enc.ParameterMessage(*group, *param, val)
	}
	if err != nil {
		common.Fatalf("encode: %v", err)
	}

	if *out == "" {
		fmt.Println(strings.ToUpper(hex.EncodeToString(msg)))
		return
	}
	f, err := os.OpenFile(*out, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		common.Fatalf("open %s: %v", *out, err)
	}
	defer f.Close()
	if _, err := f.Write(msg); err != nil {
		common.Fatalf("write %s: %v", *out, err)
	}
	common.Logf("appended %d bytes to %s", len(msg), *out)
}

func assemble(res decodeResult) []preset.Preset {
	presets, diags := preset.Assemble(res.params)
	for range diags {
		// Already logged during assembly; keep the drop count honest.
		if res.metrics != nil {
			res.metrics.IncDrop()
		}
	}
	return presets
}

func exportCmd(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	in := fs.String("in", "", "input .syx capture")
	outDir := fs.String("out-dir", "", "output directory")
	format := fs.String("format", "yaml", "yaml or json")
	catalogPath := fs.String("catalog", "", "parameter map YAML (default: built-in)")
	device := fs.String("device", "", "device id, hex (default 10)")
	logDir := fs.String("log-dir", "", "also log to a rotating file in this directory")
	fs.Parse(args)
	if *in == "" || *outDir == "" {
		common.Fatalf("export: --in and --out-dir are required")
	}
	setupLogs(*logDir)
	fmtOut := parseFormat(*format)

	res := decodeFile(*in, *catalogPath, *device, false, false)
	presets := assemble(res)
	src, err := export.SourceOf(*in)
	if err != nil {
		common.Fatalf("fingerprint %s: %v", *in, err)
	}
	if err := export.WriteBank(*outDir, presets, fmtOut, src); err != nil {
		common.Fatalf("export: %v", err)
	}
}

func parseFormat(s string) export.Format {
	switch s {
	case "yaml":
		return export.FormatYAML
	case "json":
		return export.FormatJSON
	default:
		common.Fatalf("unknown format %q", s)
		return ""
	}
}

// batchCmd decodes every .syx capture in a directory, writing one bank
// folder per capture. A capture that fails to read is skipped so the rest
// of the directory still exports.
func batchCmd(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	inDir := fs.String("in", "", "directory of .syx captures")
	outDir := fs.String("out-dir", "", "output directory, one bank folder per capture")
	format := fs.String("format", "yaml", "yaml or json")
	catalogPath := fs.String("catalog", "", "parameter map YAML (default: built-in)")
	device := fs.String("device", "", "device id, hex (default 10)")
	logDir := fs.String("log-dir", "", "also log to a rotating file in this directory")
	fs.Parse(args)
	if *inDir == "" || *outDir == "" {
		common.Fatalf("batch: --in and --out-dir are required")
	}
	setupLogs(*logDir)
	fmtOut := parseFormat(*format)

	matches, err := filepath.Glob(filepath.Join(*inDir, "*.syx"))
	if err != nil {
		common.Fatalf("batch: %v", err)
	}
	if len(matches) == 0 {
		common.Logf("no .syx files in %s", *inDir)
		return
	}
	common.Logf("found %d capture files in %s", len(matches), *inDir)

	idx := catalog.BuildIndex(loadCatalog(*catalogPath))
	dev := parseDeviceID(*device)
	done := 0
	for _, path := range matches {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		dest := filepath.Join(*outDir, stem)
		if err := batchOne(path, idx, dev, dest, fmtOut); err != nil {
			common.Logf("skip %s: %v", filepath.Base(path), err)
			continue
		}
		done++
	}
	common.Logf("exported %d of %d captures to %s", done, len(matches), *outDir)
}

func batchOne(path string, idx *catalog.Index, device byte, dest string, format export.Format) error {
	dec := sysex.NewDecoder(idx)
	dec.SetDeviceID(device)
	dec.SetSource(filepath.Base(path))

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	params, err := dec.Decode(f)
	f.Close()
	if err != nil {
		return err
	}

	presets, _ := preset.Assemble(params)
	src, err := export.SourceOf(path)
	if err != nil {
		return err
	}
	if err := export.WriteBank(dest, presets, format, src); err != nil {
		return err
	}
	return sysex.WriteDiagnosticsJSONL(filepath.Join(dest, "diagnostics.jsonl"), dec.Diagnostics())
}

func reportCmd(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	in := fs.String("in", "", "input .syx capture")
	pdfOut := fs.String("pdf", "", "bank sheet PDF output")
	jsonOut := fs.String("json", "", "bank report JSON output")
	catalogPath := fs.String("catalog", "", "parameter map YAML (default: built-in)")
	device := fs.String("device", "", "device id, hex (default 10)")
	fs.Parse(args)
	if *in == "" || *pdfOut == "" {
		common.Fatalf("report: --in and --pdf are required")
	}

	res := decodeFile(*in, *catalogPath, *device, false, false)
	presets := assemble(res)
	src, err := export.SourceOf(*in)
	if err != nil {
		common.Fatalf("fingerprint %s: %v", *in, err)
	}
	analysis := preset.Analyze(presets)
	if err := report.SaveBankPDF(presets, analysis, src, *pdfOut); err != nil {
		common.Fatalf("report: %v", err)
	}
	if *jsonOut != "" {
		if err := report.SaveBankJSON(report.BuildBankReport(presets, src), *jsonOut); err != nil {
			common.Fatalf("report json: %v", err)
		}
	}
	common.Logf("wrote bank sheet for %d presets to %s", len(presets), *pdfOut)
}

func analyzeCmd(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	in := fs.String("in", "", "input .syx capture")
	catalogPath := fs.String("catalog", "", "parameter map YAML (default: built-in)")
	device := fs.String("device", "", "device id, hex (default 10)")
	fs.Parse(args)
	if *in == "" {
		common.Fatalf("analyze: --in is required")
	}

	res := decodeFile(*in, *catalogPath, *device, false, false)
	presets := assemble(res)
	out, err := yaml.Marshal(preset.Analyze(presets))
	if err != nil {
		common.Fatalf("analyze: %v", err)
	}
	os.Stdout.Write(out)
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	catalogPath := fs.String("catalog", "", "parameter map YAML (default: built-in)")
	group := fs.String("group", "", "list one group's parameters")
	fs.Parse(args)

	cat := loadCatalog(*catalogPath)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if *group != "" {
		g, ok := cat.Group(*group)
		if !ok {
			common.Fatalf("list: unknown group %q", *group)
		}
		fmt.Fprintln(w, "PARAMETER\tOFFSET\tWIDTH\tKIND\tRANGE")
		for _, d := range g.Parameters {
			rng := "-"
			if d.HasRange {
				rng = fmt.Sprintf("%d..%d", d.Min, d.Max)
			}
			fmt.Fprintf(w, "%s\t%02X\t%d\t%s\t%s\n", d.Name, d.Offset, d.Width, d.Kind, rng)
		}
		return
	}
	fmt.Fprintln(w, "GROUP\tBASE\tSLOTS\tPARAMETERS")
	for _, name := range cat.GroupNames() {
		g, _ := cat.Group(name)
		slots := g.Slots
		if slots == 0 {
			slots = 1
		}
		fmt.Fprintf(w, "%s\t%02X %02X %02X\t%d\t%d\n", name, g.Base[0], g.Base[1], g.Base[2], slots, len(g.Parameters))
	}
}
