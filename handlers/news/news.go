package news

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/utils/response"
)

// NewsItem is one entry of the curated TON ecosystem feed.
type NewsItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Date     string `json:"date"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// NewsHandler serves the curated TON ecosystem feed shown on the app's home
// screen. The feed is static; a real integration would pull from TON's
// official channels.
type NewsHandler struct {
	items []NewsItem
}

// NewNewsHandler creates a new news handler
func NewNewsHandler() *NewsHandler {
	return &NewsHandler{
		items: []NewsItem{
			{
				ID:       "1",
				Title:    "TON Launches New Developer Program",
				Content:  "The TON Foundation announced a $10M grant program for Web3 developers building on TON blockchain.",
				Date:     "March 28, 2025",
				Source:   "telegram",
				URL:      "https://t.me/toncoin",
				ImageURL: "/ton-dev-program.jpg",
			},
			{
				ID:      "2",
				Title:   "TON Coin Reaches New All-Time High",
				Content: "TON Coin reached a new all-time high of $9.75 after major exchange integrations and ecosystem growth.",
				Date:    "March 27, 2025",
				Source:  "twitter",
				URL:     "https://x.com/ton_blockchain",
			},
			{
				ID:      "3",
				Title:   "New TON Bridge Simplifies Cross-Chain Transfers",
				Content: "The new TON Bridge enables seamless asset transfers between TON and major blockchains like Ethereum and BSC.",
				Date:    "March 25, 2025",
				Source:  "telegram",
				URL:     "https://t.me/tonblockchain",
			},
			{
				ID:      "4",
				Title:   "TON Hackathon Announces Winners",
				Content: "The global TON hackathon concluded with innovative projects in DeFi, Gaming, and Social categories sharing $1M in prizes.",
				Date:    "March 22, 2025",
				Source:  "twitter",
				URL:     "https://x.com/ton_blockchain",
			},
			{
				ID:      "5",
				Title:   "TON Connect 2.0 Released for Seamless Wallet Integration",
				Content: "The new TON Connect 2.0 protocol makes it easier for developers to integrate TON wallets into their dApps.",
				Date:    "March 20, 2025",
				Source:  "telegram",
				URL:     "https://t.me/tonblockchain",
			},
		},
	}
}

// GetNews handles GET /api/v1/ton-news
func (h *NewsHandler) GetNews(c *fiber.Ctx) error {
	return response.Success(c, h.items)
}
