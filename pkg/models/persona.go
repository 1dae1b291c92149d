package models

import (
	"time"

	"github.com/google/uuid"
)

// TargetPersona describes the ideal buyer used as the scoring rubric.
type TargetPersona struct {
	JobTitles          []string `json:"job_titles"`
	CompanyTypes       []string `json:"company_types"`
	Industries         []string `json:"industries"`
	CompanySize        string   `json:"company_size"`
	GeographicLocation string   `json:"geographic_location"`
	PainPoints         []string `json:"pain_points"`
	Characteristics    []string `json:"characteristics"`
}

// MessageStyle controls the tone and shape of generated outreach messages.
type MessageStyle struct {
	Tone         string   `json:"tone"`
	Structure    string   `json:"structure"`
	KeyPoints    []string `json:"key_points"`
	CallToAction string   `json:"call_to_action"`
	Example      string   `json:"example"`
}

// OutreachStrategy holds what the tenant sells and how it wants to open
// conversations with qualified prospects.
type OutreachStrategy struct {
	WhatOffers       string       `json:"what_offers"`
	ValueProposition string       `json:"value_proposition"`
	IdealSignals     []string     `json:"ideal_signals"`
	MessageStyle     MessageStyle `json:"message_style"`
}

// PersonaProfile is the tenant's company description plus its buyer persona
// and outreach strategy. One per tenant; read-only input to scoring.
type PersonaProfile struct {
	ID       uuid.UUID `json:"id"`
	ClientID uuid.UUID `json:"client_id"`

	CompanyName        string   `json:"company_name"`
	CompanyDescription string   `json:"company_description"`
	Website            string   `json:"website"`
	ProductsServices   []string `json:"products_services"`

	TargetPersona    TargetPersona    `json:"target_persona"`
	OutreachStrategy OutreachStrategy `json:"outreach_strategy"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
