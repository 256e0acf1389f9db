package agents

import "github.com/Shubham-Rasal/anp-chat/internal/domain"

// Preset agent personas. These are static data: no behavior lives here, the
// pipeline only needs the metadata when rendering and archiving responses.
var presets = []domain.AgentInfo{
	{
		ID:              "lead-qualifier",
		Name:            "Lead Qualifier",
		Description:     "Qualifies leads based on criteria and assigns a score",
		Model:           "gpt-4",
		Capability:      domain.CapabilityLeads,
		StorageProvider: "local",
		Tools:           []string{"data-aggregate", "csv-processor"},
		SystemPrompt:    "You are a lead qualification assistant. Your task is to analyze lead data, score potential customers based on established criteria, and provide recommendations for follow-up actions.",
	},
	{
		ID:              "gmail-assistant",
		Name:            "Gmail Assistant",
		Description:     "Reads, drafts and sends email on the user's behalf",
		Model:           "gpt-4",
		Capability:      domain.CapabilityEmail,
		StorageProvider: "local",
		Tools:           []string{"gmail-send", "email-template"},
		SystemPrompt:    "You are an email assistant. You help the user read, draft and send email, keeping tone and context consistent with the ongoing thread.",
	},
	{
		ID:              "email-outreach",
		Name:            "Email Outreach Agent",
		Description:     "Sends personalized email sequences to leads",
		Model:           "gpt-4-turbo",
		Capability:      domain.CapabilityEmail,
		StorageProvider: "mongodb",
		Tools:           []string{"gmail-send", "email-template"},
		SystemPrompt:    "You are an email outreach specialist. Your goal is to create personalized emails that engage potential customers, establish a connection, and generate interest in our products or services.",
	},
	{
		ID:              "meeting-scheduler",
		Name:            "Meeting Scheduler",
		Description:     "Schedules sales calls and demos with qualified leads",
		Model:           "claude-3-sonnet",
		Capability:      domain.CapabilitySchedule,
		StorageProvider: "postgres",
		Tools:           []string{"calendar-create", "gmail-send"},
		SystemPrompt:    "You are a meeting scheduling assistant. Your role is to coordinate and schedule meetings between our sales team and potential clients, finding optimal times that work for all participants.",
	},
	{
		ID:              "data-analyzer",
		Name:            "Data Analyzer",
		Description:     "Analyzes lead and customer data for insights",
		Model:           "claude-3-opus",
		Capability:      domain.CapabilityAnalytics,
		StorageProvider: "sqlite",
		Tools:           []string{"data-aggregate", "sheets-read", "csv-processor"},
		SystemPrompt:    "You are a data analysis expert. Your purpose is to examine customer and lead data, identify patterns and trends, and generate actionable insights to improve sales and marketing strategies.",
	},
	{
		ID:              "follow-up-manager",
		Name:            "Follow-up Manager",
		Description:     "Manages follow-up communications with leads",
		Model:           "gpt-3.5-turbo",
		Capability:      domain.CapabilityFollowUp,
		StorageProvider: "redis",
		Tools:           []string{"gmail-send", "calendar-create"},
		SystemPrompt:    "You are a follow-up specialist. Your job is to maintain contact with potential customers who have shown interest but have not yet converted, providing them with relevant information and encouragement to move forward in the sales process.",
	},
}
