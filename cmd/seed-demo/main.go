package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pedagolab/parcours-backend/internal/config"
	"github.com/pedagolab/parcours-backend/internal/database"
	"github.com/pedagolab/parcours-backend/internal/logger"
	"github.com/pedagolab/parcours-backend/internal/model"
)

type seedStep struct {
	format  string
	title   string
	payload string
}

// One step per supported format, so a fresh install can exercise the
// whole engine end to end.
var demoSteps = []seedStep{
	{
		format: "SINGLE_CHOICE",
		title:  "Capitales européennes",
		payload: `{"questions": [
			{"id": "q1", "text": "Quelle est la capitale de la France ?", "options": ["Paris", "Lyon", "Marseille"], "correct": 0},
			{"id": "q2", "text": "Quelle est la capitale de l'Italie ?", "options": ["Milan", "Rome", "Naples"], "correct": 1}
		]}`,
	},
	{
		format: "MULTIPLE_CHOICE",
		title:  "Nombres premiers",
		payload: `{"questions": [
			{"id": "q1", "text": "Sélectionnez tous les nombres premiers.", "options": ["2", "4", "7", "9", "11"], "correct": [0, 2, 4]}
		]}`,
	},
	{
		format: "TRUE_FALSE",
		title:  "Vrai ou faux ?",
		payload: `{"propositions": [
			{"id": "p1", "text": "L'eau bout à 100 °C au niveau de la mer.", "correct": true},
			{"id": "p2", "text": "Le Soleil tourne autour de la Terre.", "correct": false}
		]}`,
	},
	{
		format: "FILL_BLANK",
		title:  "Complétez la phrase",
		payload: `{"blanks": [
			{"id": "b1", "prompt": "La photosynthèse produit du ___.", "expected": "dioxygène"},
			{"id": "b2", "prompt": "L'unité de la force est le ___.", "expected": "newton"}
		]}`,
	},
	{
		format: "PAIRING",
		title:  "Associez les œuvres à leurs auteurs",
		payload: `{"pairs": [
			{"left": "Les Misérables", "right": "Victor Hugo"},
			{"left": "L'Étranger", "right": "Albert Camus"},
			{"left": "Madame Bovary", "right": "Gustave Flaubert"}
		]}`,
	},
	{
		format: "ORDERING",
		title:  "Classez les événements par date",
		payload: `{"elements": [
			{"id": "e1", "text": "Découverte de l'Amérique", "date": "1492"},
			{"id": "e2", "text": "Chute de Constantinople", "date": "1453"},
			{"id": "e3", "text": "Bataille de Marignan", "date": "1515"}
		]}`,
	},
	{
		format: "FREE_RESPONSE",
		title:  "Question ouverte",
		payload: `{"questions": [
			{"id": "q1", "text": "Expliquez les causes de la Première Guerre mondiale.", "keywords": ["alliances", "nationalisme", "Sarajevo"]}
		]}`,
	},
	{
		format: "HOTSPOT",
		title:  "Anatomie du cœur",
		payload: `{
			"image": "/static/demo/coeur.png",
			"zones": [
				{"id": "z1", "shape": "rect", "points": [10, 10, 120, 90]},
				{"id": "z2", "shape": "rect", "points": [140, 10, 250, 90]}
			],
			"targets": [
				{"id": "t1", "prompt": "Cliquez sur le ventricule gauche.", "zone": "z1"},
				{"id": "t2", "prompt": "Cliquez sur l'oreillette droite.", "zone": "z2"}
			]
		}`,
	},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	fmt.Println("=== Seeding Demo Assessment ===")

	assessmentID := uuid.New()
	_, err = pool.Exec(ctx,
		`INSERT INTO assessments (id, title, description, grading_mode, threshold_percent, stake, duration_seconds, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		assessmentID,
		"Parcours de démonstration",
		"Un parcours couvrant les huit formats d'étapes.",
		"threshold", 70, 2, 900, model.AssessmentStatusPublished,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to insert assessment")
	}

	for i, step := range demoSteps {
		_, err = pool.Exec(ctx,
			`INSERT INTO assessment_steps (id, assessment_id, position, format, title, description, payload)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), assessmentID, i, step.format, step.title, "", step.payload,
		)
		if err != nil {
			log.Fatal().Err(err).Str("format", step.format).Msg("Failed to insert step")
		}
		fmt.Printf("  step %d: %s\n", i, step.format)
	}

	fmt.Printf("\nSuccess! Assessment %s seeded with %d steps.\n", assessmentID, len(demoSteps))
	fmt.Println("Run the server and warm the cache, or restart it to prewarm.")
}
