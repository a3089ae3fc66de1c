package main

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"tartil/align"
	"tartil/asr"
	"tartil/corpus"
	"tartil/decode"
	"tartil/internal/api"
	"tartil/internal/config"
	"tartil/pipeline"
	"tartil/session"
)

func main() {
	// 1. Load configuration.
	cfg := config.Load()

	setupLogging(cfg.TraceLogPath)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC: %v", r)
			panic(r)
		}
	}()

	// 2. Load the reference corpus.
	index, err := corpus.LoadGlob(cfg.CorpusGlob)
	if err != nil {
		log.Fatal("Failed to load reference corpus:", err)
	}
	log.Printf("Loaded reference corpus: %d words", index.Len())

	// 3. Build the alignment engine and session controller.
	engine := align.NewEngine(cfg.Align, index)
	controller := session.NewController(cfg.Align)
	sessionMgr := session.NewManager(cfg.MaxBufferSeconds)

	// 4. Build the external collaborators: decoder and transcriber.
	decoder := decode.NewMP3Decoder()
	transcriber, err := asr.Build(cfg.ASR)
	if err != nil {
		log.Fatal("Failed to build ASR backend:", err)
	}
	defer transcriber.Close()
	log.Printf("ASR backend: %s", transcriber.Name())

	// 5. Wire the chunk pipeline.
	pl := pipeline.New(decoder, transcriber, engine, controller)

	// 6. Start the API server.
	server := api.NewServer(cfg, sessionMgr, pl)
	log.Println("Starting tartil backend...")
	server.Start()
}

func setupLogging(path string) {
	if path == "" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxAge:     14, // days
		MaxBackups: 5,
		Compress:   true,
	}

	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Printf("trace log attached: %s", path)
}
