package main

import (
	"context"
	"fmt"
	"github.com/alecthomas/kong"
	"github.com/hauke96/sigolo/v2"
	"github.com/joho/godotenv"
	"net"
	"net/http"
	"nlr/importing"
	"nlr/index"
	"nlr/web"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

const VERSION = "v0.1.0"

var cli struct {
	Logging string          `help:"Logging verbosity." enum:"info,debug,trace" short:"l" default:"info" env:"NLR_LOGGING"`
	Version VersionFlag     `help:"Print version information and quit" name:"version" short:"v"`
	Config  kong.ConfigFlag `help:"JSON file with values for the flags below." placeholder:"<config-file>"`
	Serve   struct {
		Addr            string        `help:"The address to listen on." default:"127.0.0.1" env:"NLR_ADDR"`
		Port            string        `help:"The port to listen on." default:"8080" env:"NLR_PORT"`
		DataFile        string        `help:"The compressed dataset cache file." default:"./data/data.json.lz4" env:"NLR_DATA_FILE"`
		StaticDir       string        `help:"Directory of static files served below /show/." default:"./__static_http" env:"NLR_STATIC_HTTP"`
		DataSourceUrl   string        `help:"The EsriJSON service used when no dataset file is available." env:"NLR_DATA_SOURCE_URL"`
		ForceUpdate     bool          `help:"Download the dataset even if a dataset file exists." env:"NLR_FORCE_UPDATE_DATA"`
		TlsCert         string        `help:"Certificate file, TLS is used when this and the key file are set." env:"NLR_TLS_CERT"`
		TlsKey          string        `help:"Key file of the TLS certificate." env:"NLR_TLS_KEY"`
		BatchLimit      int           `help:"Maximum number of batch queries evaluated concurrently, 0 for no limit." default:"0" env:"NLR_BATCH_LIMIT"`
		DownloadTimeout time.Duration `help:"Timeout of the whole dataset download." default:"10m" env:"NLR_DOWNLOAD_TIMEOUT"`
	} `cmd:"" help:"Starts the query server. The dataset is reloaded on SIGHUP."`
	Import struct {
		DataSourceUrl string `help:"The EsriJSON service to download the road network from." placeholder:"<url>" required:"" env:"NLR_DATA_SOURCE_URL"`
		DataFile      string `help:"The compressed dataset cache file to write." default:"./data/data.json.lz4" env:"NLR_DATA_FILE"`
	} `cmd:"" help:"Downloads the road network and stores it as dataset file."`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

func main() {
	// A missing .env file is fine, the environment and flags still apply.
	_ = godotenv.Load(".env")

	ctx := kong.Parse(
		&cli,
		kong.Name("nlr"),
		kong.Description("A server turning road IDs and SLK ranges into geometries."),
		kong.Configuration(kong.JSON, "./nlr.json"),
		kong.Vars{
			"version": VERSION,
		},
	)

	if strings.ToLower(cli.Logging) == "debug" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	} else if strings.ToLower(cli.Logging) == "trace" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	} else if strings.ToLower(cli.Logging) == "info" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
	} else {
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
		sigolo.Fatalf("Unknown logging level '%s'", cli.Logging)
	}

	switch ctx.Command() {
	case "serve":
		serve()
	case "import":
		_, err := importing.Import(context.Background(), http.DefaultClient, cli.Import.DataSourceUrl, cli.Import.DataFile)
		sigolo.FatalCheck(err)
		sigolo.Infof("Wrote dataset to %s", cli.Import.DataFile)
	default:
		sigolo.Errorf("Unknown command '%s'", ctx.Command())
	}
}

func serve() {
	spatialIndex, err := loadIndex(cli.Serve.ForceUpdate)
	sigolo.FatalCheck(err)

	holder := index.NewHolder(spatialIndex)
	go reloadOnSignal(holder)

	options := web.Options{
		StaticDir:  cli.Serve.StaticDir,
		BatchLimit: cli.Serve.BatchLimit,
	}

	addr := net.JoinHostPort(cli.Serve.Addr, cli.Serve.Port)
	if cli.Serve.TlsCert != "" && cli.Serve.TlsKey != "" {
		web.StartServerTls(addr, cli.Serve.TlsCert, cli.Serve.TlsKey, holder, options)
	} else {
		web.StartServer(addr, holder, options)
	}
}

func loadIndex(forceUpdate bool) (*index.SpatialIndex, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cli.Serve.DownloadTimeout)
	defer cancel()

	store, err := importing.LoadOrDownload(ctx, http.DefaultClient, cli.Serve.DataSourceUrl, cli.Serve.DataFile, forceUpdate)
	if err != nil {
		return nil, err
	}

	spatialIndex, err := index.Build(store)
	if err != nil {
		return nil, err
	}

	web.DatasetFeatures.Set(float64(store.Len()))
	sigolo.Infof("Serving %d features of %d roads", store.Len(), spatialIndex.RoadCount())

	return spatialIndex, nil
}

// reloadOnSignal rebuilds the index from the dataset file on every SIGHUP. Queries keep using the old index until the
// new one is complete, and a failed reload keeps the old index entirely.
func reloadOnSignal(holder *index.Holder) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP)

	for range signals {
		sigolo.Infof("Received SIGHUP, reloading dataset")

		spatialIndex, err := loadIndex(false)
		if err != nil {
			sigolo.Errorf("Reloading the dataset failed, keep serving the previous one: %+v", err)
			continue
		}

		holder.Swap(spatialIndex)
		sigolo.Infof("Reloaded dataset")
	}
}
