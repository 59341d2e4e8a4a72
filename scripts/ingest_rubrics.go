package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"writeitgreat/proposal-evaluator/internal/config"
	"writeitgreat/proposal-evaluator/internal/services"
)

func main() {
	log.Println("🚀 Starting rubric ingestion...")

	// Load configuration
	cfg := config.Load()

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	rubricStore, err := services.NewRubricStoreService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize rubric store: %v", err)
	}

	if err := rubricStore.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	extractor := services.NewExtractorService()
	chunker := services.NewTextChunker()

	ctx := context.Background()

	documents := []struct {
		Path    string
		DocType string
		Name    string
	}{
		{
			Path:    "./reference_docs/scoring_rubric.pdf",
			DocType: "scoring_rubric",
			Name:    "Proposal Scoring Rubric",
		},
		{
			Path:    "./reference_docs/genre_comps_guide.pdf",
			DocType: "genre_comps",
			Name:    "Genre Comps Guide",
		},
		{
			Path:    "./reference_docs/advance_guidelines.pdf",
			DocType: "advance_guidelines",
			Name:    "Advance Guidelines",
		},
	}

	successCount := 0
	failCount := 0

	for _, doc := range documents {
		log.Printf("\n📄 Processing: %s", doc.Name)
		log.Printf("   Path: %s", doc.Path)

		if _, err := os.Stat(doc.Path); os.IsNotExist(err) {
			log.Printf("   ⚠️  File not found, skipping...")
			failCount++
			continue
		}

		fileType := services.FileTypeFor(doc.Path)
		text := extractor.ExtractText(doc.Path, fileType)
		if strings.TrimSpace(text) == "" {
			log.Printf("   ❌ Failed to extract text")
			failCount++
			continue
		}

		log.Printf("   ✅ Extracted %d characters", len(text))

		chunks := chunker.ChunkText(text, 1000, 200)
		log.Printf("   ✂️  Created %d chunks", len(chunks))

		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", i+1, err)
				continue
			}

			chunkID := fmt.Sprintf("%s_chunk_%d", doc.DocType, i)

			if err := rubricStore.UpsertChunk(ctx, chunkID, doc.DocType, chunk, embedding); err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}

			if (i+1)%5 == 0 || i == len(chunks)-1 {
				log.Printf("   📊 Progress: %d/%d chunks stored", i+1, len(chunks))
			}
		}

		log.Printf("   ✅ Successfully ingested %s", doc.Name)
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d documents", successCount)
	log.Printf("   ❌ Failed: %d documents", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}
}
