package main

import (
	"context"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/yuvdither"
	"github.com/bodgit/yuvdither/rgb565"
	"github.com/urfave/cli/v2"
)

const defaultDB = "yuvdither.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newConverter(c *cli.Context) (*yuvdither.Converter, func() error, error) {
	cache, err := yuvdither.NewCache(c.String("db"))
	if err != nil {
		return nil, nil, err
	}

	opts := yuvdither.DefaultOptions()
	opts.Resize = c.Bool("resize")
	opts.Workers = c.Int("workers")

	return yuvdither.New(cache, newLogger(c), opts), cache.Close, nil
}

func convert(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	m, closer, err := newConverter(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer closer()

	in := c.Args().First()
	out := yuvdither.OutputFilename(in)
	if c.NArg() > 1 {
		out = c.Args().Get(1)
	}

	b, err := m.ConvertFile(in)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := ioutil.WriteFile(out, b, 0666); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func scan(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	m, closer, err := newConverter(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer closer()

	if err := m.Scan(context.Background(), c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func preview(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	packed, err := rgb565.Decode(f)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	w, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer w.Close()

	if err := yuvdither.Preview(w, packed); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func purge(c *cli.Context) error {
	cache, err := yuvdither.NewCache(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer cache.Close()

	n, err := cache.Len()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := cache.Purge(); err != nil {
		return cli.NewExitError(err, 1)
	}

	newLogger(c).Printf("Purged %d textures\n", n)

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "yuvdither"
	app.Usage = "Dither and pack textures for 5-6-5 storage"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	defaults := yuvdither.DefaultOptions()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"YUVDITHER_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.BoolFlag{
			Name:  "resize",
			Value: defaults.Resize,
			Usage: "resize odd sized images to even dimensions",
		},
		&cli.IntFlag{
			Name:  "workers",
			Value: defaults.Workers,
			Usage: "number of images converted concurrently by scan",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert a single image",
			Description: "Writes FILE converted to 5-6-5 format to OUTPUT, or to FILE with .565 appended",
			ArgsUsage:   "FILE [OUTPUT]",
			Action:      convert,
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and convert tagged images",
			Description: "Converts every image with a .meta sidecar containing \"userData: " + yuvdither.Tag + "\"",
			ArgsUsage:   "DIRECTORY",
			Action:      scan,
		},
		{
			Name:        "preview",
			Usage:       "Unpack a converted image for viewing",
			Description: "",
			ArgsUsage:   "FILE OUTPUT",
			Action:      preview,
		},
		{
			Name:        "purge",
			Usage:       "Remove all cached textures",
			Description: "",
			Action:      purge,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
