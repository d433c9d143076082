package routes

import "github.com/tedsuo/rata"

const (
	CreateAuction = "CREATE_AUCTION"
	ListAuctions  = "LIST_AUCTIONS"
	StartAuction  = "START_AUCTION"
	SimulateBid   = "SIMULATE_BID"
	AuctionChart  = "AUCTION_CHART"

	AuctionAgents = "AUCTION_AGENTS"
	UserAgents    = "USER_AGENTS"
	AgentStats    = "AGENT_STATS"

	Health = "HEALTH"
	Events = "EVENTS"
)

var Routes = rata.Routes{
	{Path: "/api/auction/create", Method: "POST", Name: CreateAuction},
	{Path: "/api/auction/get-auction", Method: "GET", Name: ListAuctions},
	{Path: "/api/auction/start", Method: "POST", Name: StartAuction},
	{Path: "/api/auction/simulate-bid", Method: "POST", Name: SimulateBid},
	{Path: "/api/auction/:auction_id/chart.svg", Method: "GET", Name: AuctionChart},

	{Path: "/api/auction/get-agents/:user_id", Method: "GET", Name: AuctionAgents},
	{Path: "/api/agent/get-agents/:user_id", Method: "GET", Name: UserAgents},
	{Path: "/api/agent/:agent_id/stats", Method: "GET", Name: AgentStats},

	{Path: "/health", Method: "GET", Name: Health},
	{Path: "/ws", Method: "GET", Name: Events},
}
