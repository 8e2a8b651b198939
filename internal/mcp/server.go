// Package mcp exposes the drink log as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/siplog/siplog/internal/database"
	"github.com/siplog/siplog/internal/drink"
	"github.com/siplog/siplog/internal/stats"
	"github.com/siplog/siplog/internal/store"
)

// Server wraps the MCP server with drink-log functionality.
type Server struct {
	server   *mcp.Server
	dbCtx    *database.Context
	records  *store.RecordStore
	presets  *store.PresetStore
	settings *store.SettingsStore
}

// NewServer creates a new MCP server instance over the default database.
func NewServer() (*Server, error) {
	dbCtx, err := database.CreateDatabase("")
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	repo := database.NewSlotRepository(dbCtx)
	records := store.NewRecordStore(repo)
	presets := store.NewPresetStore(repo)
	settings := store.NewSettingsStore(repo)

	ctx := context.Background()
	if err := records.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	if err := presets.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}
	if err := settings.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "siplog",
		Version: "0.1.0",
	}, nil)

	s := &Server{
		server:   mcpServer,
		dbCtx:    dbCtx,
		records:  records,
		presets:  presets,
		settings: settings,
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		_ = database.CloseDatabase(s.dbCtx)
	}()
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "drink_add",
		Description: "Log a purchased drink",
	}, s.handleAdd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "drink_list",
		Description: "List logged drinks, optionally for one month or day",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "drink_delete",
		Description: "Delete a logged drink by id",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "drink_stats",
		Description: "Aggregate spending statistics over the drink log",
	}, s.handleStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preset_list",
		Description: "List shop menus, the topping catalog and default preferences",
	}, s.handlePresets)
}

// Input/Output types for each tool

type AddInput struct {
	Date     string          `json:"date" jsonschema:"required,description=Purchase date (YYYY-MM-DD)"`
	Shop     string          `json:"shop" jsonschema:"required,description=Shop name"`
	Item     string          `json:"item" jsonschema:"required,description=Drink name"`
	Price    int             `json:"price" jsonschema:"required,description=Base price before toppings"`
	Sugar    *string         `json:"sugar,omitempty" jsonschema:"description=Sugar level (default preference if omitted)"`
	Ice      *string         `json:"ice,omitempty" jsonschema:"description=Ice level (default preference if omitted)"`
	IsEco    *bool           `json:"isEco,omitempty" jsonschema:"description=Reusable cup discount"`
	IsTreat  *bool           `json:"isTreat,omitempty" jsonschema:"description=Someone else paid"`
	Toppings []drink.Topping `json:"toppings,omitempty" jsonschema:"description=Added toppings in addition order"`
}

type AddOutput struct {
	Message string       `json:"message"`
	Record  drink.Record `json:"record"`
}

type ListInput struct {
	Month *string `json:"month,omitempty" jsonschema:"description=Restrict to one month (YYYY-MM)"`
	Date  *string `json:"date,omitempty" jsonschema:"description=Restrict to one day (YYYY-MM-DD)"`
}

type ListOutput struct {
	Records []drink.Record `json:"records"`
}

type DeleteInput struct {
	ID int64 `json:"id" jsonschema:"required,description=Record id to delete"`
}

type DeleteOutput struct {
	Message string `json:"message"`
}

type StatsInput struct {
	Month *string `json:"month,omitempty" jsonschema:"description=Restrict to one month (YYYY-MM)"`
}

type StatsOutput struct {
	Summary stats.Summary `json:"summary"`
}

type PresetsInput struct{}

type PresetsOutput struct {
	Presets drink.Presets `json:"presets"`
}

// Tool handlers

func (s *Server) handleAdd(ctx context.Context, req *mcp.CallToolRequest, input AddInput) (*mcp.CallToolResult, AddOutput, error) {
	if input.Date == "" || input.Shop == "" || input.Item == "" {
		return nil, AddOutput{}, fmt.Errorf("date, shop and item are required")
	}
	if input.Price < 0 {
		return nil, AddOutput{}, fmt.Errorf("price must not be negative")
	}

	prefs := s.presets.Presets()
	record := drink.Record{
		ID:            drink.NextID(),
		Date:          input.Date,
		Shop:          input.Shop,
		Item:          input.Item,
		PriceOriginal: input.Price,
		Toppings:      input.Toppings,
		Sugar:         prefs.DefaultSugar,
		Ice:           prefs.DefaultIce,
	}
	if record.Toppings == nil {
		record.Toppings = []drink.Topping{}
	}
	if input.Sugar != nil {
		record.Sugar = *input.Sugar
	}
	if input.Ice != nil {
		record.Ice = *input.Ice
	}
	if input.IsEco != nil {
		record.IsEco = *input.IsEco
	}
	if input.IsTreat != nil {
		record.IsTreat = *input.IsTreat
	}
	record.FinalCost = drink.FinalCost(record.PriceOriginal, record.Toppings, record.IsEco, record.IsTreat)

	if err := s.records.Add(ctx, record); err != nil {
		return nil, AddOutput{}, fmt.Errorf("failed to save record: %w", err)
	}
	if err := s.presets.LearnMenu(ctx, record.Shop, record.Item, record.PriceOriginal); err != nil {
		return nil, AddOutput{}, fmt.Errorf("failed to learn menu item: %w", err)
	}

	return nil, AddOutput{
		Message: fmt.Sprintf("Logged %s from %s (cost %d)", record.Item, record.Shop, record.FinalCost),
		Record:  record,
	}, nil
}

func (s *Server) handleList(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	all := s.records.Records()
	out := make([]drink.Record, 0, len(all))
	for _, r := range all {
		if input.Date != nil && r.Date != *input.Date {
			continue
		}
		if input.Month != nil && (len(r.Date) < 7 || r.Date[:7] != *input.Month) {
			continue
		}
		out = append(out, r)
	}
	return nil, ListOutput{Records: out}, nil
}

func (s *Server) handleDelete(ctx context.Context, req *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	removed, err := s.records.Delete(ctx, input.ID)
	if err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete record: %w", err)
	}
	if !removed {
		return nil, DeleteOutput{}, fmt.Errorf("record %d not found", input.ID)
	}
	return nil, DeleteOutput{Message: fmt.Sprintf("Deleted record %d", input.ID)}, nil
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, StatsOutput, error) {
	month := ""
	if input.Month != nil {
		month = *input.Month
	}
	return nil, StatsOutput{Summary: stats.Compute(s.records.Records(), month)}, nil
}

func (s *Server) handlePresets(ctx context.Context, req *mcp.CallToolRequest, input PresetsInput) (*mcp.CallToolResult, PresetsOutput, error) {
	return nil, PresetsOutput{Presets: s.presets.Presets()}, nil
}
