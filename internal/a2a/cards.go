package a2a

const cardVersion = "1.0"

func baseCard(name, description, url string, skills []Skill) AgentCard {
	return AgentCard{
		Name:               name,
		Description:        description,
		URL:                url,
		Version:            cardVersion,
		ProtocolVersion:    ProtocolVersion,
		PreferredTransport: TransportJSONRPC,
		DefaultInputModes:  []string{"text/plain", "application/json"},
		DefaultOutputModes: []string{"text/plain", "application/json"},
		Skills:             skills,
	}
}

// DataCard is the card of the customer data agent.
func DataCard(url string) AgentCard {
	return baseCard("Customer Data Agent",
		"Specialist agent for accessing and managing customer database information",
		url,
		[]Skill{
			{
				ID:          "get_customer_info",
				Name:        "Get Customer Information",
				Description: "Retrieves customer details by ID",
				Tags:        []string{"customer", "data", "retrieval"},
				Examples:    []string{"Get customer information for ID 1", "Retrieve customer 12345"},
			},
			{
				ID:          "list_customers",
				Name:        "List Customers",
				Description: "Lists customers with optional status filtering",
				Tags:        []string{"customer", "list", "filter"},
				Examples:    []string{"List all active customers", "Show me customers with disabled status"},
			},
			{
				ID:          "update_customer",
				Name:        "Update Customer",
				Description: "Updates name, email, phone or status of a customer",
				Tags:        []string{"customer", "update"},
				Examples:    []string{"Update email for customer 1"},
			},
			{
				ID:          "get_customer_history",
				Name:        "Get Customer History",
				Description: "Retrieves ticket history for a customer, newest first",
				Tags:        []string{"customer", "history", "tickets"},
				Examples:    []string{"Show ticket history for customer 1"},
			},
			{
				ID:          "get_customers_with_open_tickets",
				Name:        "Get Customers with Open Tickets",
				Description: "Finds customers who have open tickets, optionally filtered by status",
				Tags:        []string{"customer", "tickets", "query"},
				Examples:    []string{"Show active customers with open tickets"},
			},
		})
}

// SupportCard is the card of the support agent.
func SupportCard(url string) AgentCard {
	return baseCard("Support Agent",
		"Specialist agent for customer support, ticket creation and escalation",
		url,
		[]Skill{
			{
				ID:          "create_ticket",
				Name:        "Create Support Ticket",
				Description: "Creates a support ticket for a customer",
				Tags:        []string{"support", "ticket"},
				Examples:    []string{"Create a ticket for customer 5: cannot log in"},
			},
			{
				ID:          "handle_support_query",
				Name:        "Handle Support Query",
				Description: "Answers general support questions and email updates",
				Tags:        []string{"support", "help"},
				Examples:    []string{"I need help with my account", "Update my email to new@email.com"},
			},
			{
				ID:          "escalate_issue",
				Name:        "Escalate Issue",
				Description: "Requests billing context for billing, charge and refund issues",
				Tags:        []string{"support", "escalation", "billing"},
				Examples:    []string{"I've been charged twice, please refund immediately!"},
			},
		})
}

// RouterCard is the card of the router agent.
func RouterCard(url string) AgentCard {
	return baseCard("Router Agent",
		"Orchestrator that analyzes intent and coordinates the data and support agents",
		url,
		[]Skill{
			{
				ID:          "route_query",
				Name:        "Route Query",
				Description: "Routes a customer request to the right specialist",
				Tags:        []string{"routing", "orchestration"},
				Examples:    []string{"Get customer information for ID 5"},
			},
			{
				ID:          "coordinate_agents",
				Name:        "Coordinate Agents",
				Description: "Runs multi-step plans across specialists",
				Tags:        []string{"coordination", "multi-step"},
				Examples:    []string{"Show me all active customers who have open tickets"},
			},
			{
				ID:          "analyze_intent",
				Name:        "Analyze Intent",
				Description: "Classifies a request into intents and entities",
				Tags:        []string{"intent", "classification"},
				Examples:    []string{"cancel my plan, billing issue"},
			},
		})
}
