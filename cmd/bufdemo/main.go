package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"clockbuf/bufmgr"
	"clockbuf/config"
	"clockbuf/diskfile"
)

func checkError(err error, message string) {
	if err != nil {
		log.Fatalf("%s: %v", message, err)
	}
}

func main() {
	configPath := flag.String("config", "bufdemo.yaml", "path to the buffer pool config file")
	dbDir := flag.String("dbdir", ".", "directory holding the demo data file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	checkError(err, "failed to load config")

	dataPath := filepath.Join(*dbDir, "bufdemo.dat")
	file, err := diskfile.Open(dataPath, cfg.Buffer.PageSize)
	checkError(err, "failed to open data file")
	defer file.Close()

	mgr, err := bufmgr.New(cfg.Buffer.NumFrames)
	checkError(err, "failed to construct buffer manager")
	defer func() {
		checkError(mgr.Close(), "failed to flush on shutdown")
	}()

	pageNo, p, err := mgr.AllocPage(file)
	checkError(err, "failed to allocate page")
	checkError(p.SetInt(0, 42), "failed to set int")
	checkError(p.SetString(4, "Hello, clockbuf!"), "failed to set string")
	checkError(mgr.UnpinPage(file, pageNo, true), "failed to unpin page")
	checkError(mgr.FlushFile(file), "failed to flush file")

	read, err := mgr.ReadPage(file, pageNo)
	checkError(err, "failed to read page back")
	n, err := read.GetInt(0)
	checkError(err, "failed to get int")
	s, err := read.GetString(4)
	checkError(err, "failed to get string")
	checkError(mgr.UnpinPage(file, pageNo, false), "failed to unpin page")

	fmt.Printf("page %d: int=%d string=%q\n", pageNo, n, s)
	fmt.Print(mgr.PrintSelf())

	stats := mgr.Stats()
	fmt.Printf("stats: hits=%d misses=%d evictions=%d dirtyEvictions=%d\n",
		stats.Hits, stats.Misses, stats.Evictions, stats.DirtyEvictions)
}
