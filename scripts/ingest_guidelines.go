package main

import (
	"context"
	"io/fs"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/config"
	applog "glauniversity/ats-matcher/internal/logger"
	"glauniversity/ats-matcher/internal/secrets"
	"glauniversity/ats-matcher/internal/services"
)

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

func main() {
	cfg := config.Load()

	log, err := applog.New(applog.Options{JSON: cfg.Log.JSON, Debug: cfg.Log.Debug, Service: "ingest-guidelines"})
	if err != nil {
		stdlog.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer log.Sync()

	log.Info("🚀 Starting guideline ingestion...", zap.String("path", cfg.Guidance.Path))

	ctx := context.Background()

	apiKey, err := secrets.Source{
		Name:  "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	}.Load()
	if err != nil {
		log.Fatal("❌ Failed to load Gemini API key", zap.Error(err))
	}

	client, err := services.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal("❌ Failed to initialize Gemini", zap.Error(err))
	}
	embedder := services.NewGeminiService(client, cfg.Gemini.AnalysisModel, cfg.Gemini.EmbedModel, log)

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.VectorSize,
		log,
	)
	if err != nil {
		log.Fatal("❌ Failed to initialize Qdrant", zap.Error(err))
	}

	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatal("❌ Failed to initialize collection", zap.Error(err))
	}

	paths, err := findGuidelines(cfg.Guidance.Path)
	if err != nil {
		log.Fatal("❌ Failed to list guideline documents", zap.Error(err))
	}
	if len(paths) == 0 {
		log.Warn("⚠️ No guideline documents found", zap.String("path", cfg.Guidance.Path))
		return
	}

	extractor := services.NewTextExtractor()
	chunker := services.NewTextChunker(1000, 200)

	successCount := 0
	failCount := 0

	for _, path := range paths {
		docID := filepath.ToSlash(path)
		fileLog := log.With(zap.String("file", docID))
		fileLog.Info("📄 Processing guideline")

		text, err := extractor.ExtractFile(path)
		if err != nil {
			fileLog.Error("❌ Failed to extract text", zap.Error(err))
			failCount++
			continue
		}

		// Stale chunks from a previous, longer version of the file.
		if err := qdrantService.DeleteDocument(ctx, docID); err != nil {
			fileLog.Warn("⚠️ Failed to remove previous chunks", zap.Error(err))
		}

		chunks := chunker.Chunk(text)
		fileLog.Info("✂️ Chunked text", zap.Int("characters", len(text)), zap.Int("chunks", len(chunks)))

		stored := 0
		for i, chunk := range chunks {
			embedding, err := embedder.GenerateEmbedding(ctx, chunk)
			if err != nil {
				fileLog.Error("❌ Failed to generate embedding", zap.Int("chunk", i+1), zap.Error(err))
				continue
			}

			err = qdrantService.UpsertChunk(ctx, services.GuidelineChunk{
				DocID:   docID,
				DocType: cfg.Guidance.DocType,
				Index:   i,
				Text:    chunk,
			}, embedding)
			if err != nil {
				fileLog.Error("❌ Failed to store chunk", zap.Int("chunk", i+1), zap.Error(err))
				continue
			}
			stored++
		}

		if stored != len(chunks) {
			failCount++
			continue
		}

		fileLog.Info("✅ Successfully ingested guideline", zap.Int("chunks", stored))
		successCount++
	}

	log.Info(strings.Repeat("=", 60))
	log.Info("📊 Ingestion Summary", zap.Int("successful", successCount), zap.Int("failed", failCount))

	if failCount > 0 {
		log.Warn("⚠️ Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Info("✅ All guidelines ingested successfully!")
}

func findGuidelines(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})

	return paths, err
}
