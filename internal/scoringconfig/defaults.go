package scoringconfig

import "github.com/c0ughman/nasdaqst/backend/internal/contracts"

// Default returns the built-in scoring configuration
func Default() *Config {
	return &Config{
		Meta: Meta{
			ConfigID: "nasdaq_composite",
			Version:  "1",
		},
		Universe: Universe{
			Symbol: "^IXIC",
			// 시가총액 기준 상위 20 (근사치, 로드 시 재정규화)
			Tickers: []TickerWeight{
				{Symbol: "AAPL", Name: "Apple Inc.", Weight: 0.120},
				{Symbol: "MSFT", Name: "Microsoft Corporation", Weight: 0.105},
				{Symbol: "NVDA", Name: "NVIDIA Corporation", Weight: 0.085},
				{Symbol: "GOOGL", Name: "Alphabet Inc.", Weight: 0.065},
				{Symbol: "AMZN", Name: "Amazon.com Inc.", Weight: 0.060},
				{Symbol: "META", Name: "Meta Platforms Inc.", Weight: 0.045},
				{Symbol: "TSLA", Name: "Tesla Inc.", Weight: 0.040},
				{Symbol: "AVGO", Name: "Broadcom Inc.", Weight: 0.035},
				{Symbol: "COST", Name: "Costco Wholesale Corporation", Weight: 0.030},
				{Symbol: "NFLX", Name: "Netflix Inc.", Weight: 0.028},
				{Symbol: "ASML", Name: "ASML Holding N.V.", Weight: 0.027},
				{Symbol: "AMD", Name: "Advanced Micro Devices Inc.", Weight: 0.026},
				{Symbol: "ADBE", Name: "Adobe Inc.", Weight: 0.025},
				{Symbol: "PEP", Name: "PepsiCo Inc.", Weight: 0.024},
				{Symbol: "CSCO", Name: "Cisco Systems Inc.", Weight: 0.023},
				{Symbol: "TMUS", Name: "T-Mobile US Inc.", Weight: 0.022},
				{Symbol: "INTC", Name: "Intel Corporation", Weight: 0.021},
				{Symbol: "CMCSA", Name: "Comcast Corporation", Weight: 0.020},
				{Symbol: "QCOM", Name: "QUALCOMM Incorporated", Weight: 0.019},
				{Symbol: "INTU", Name: "Intuit Inc.", Weight: 0.018},
			},
		},
		News: News{
			CompanyWeight:       0.70,
			MarketWeight:        0.30,
			ArticlesPerTicker:   10,
			MarketArticlesLimit: 20,
			LookbackHours:       24,
			SurpriseKeywords: []KeywordWeight{
				{Phrase: "unexpected", Multiplier: 1.5},
				{Phrase: "surprise", Multiplier: 1.5},
				{Phrase: "beats expectations", Multiplier: 1.8},
				{Phrase: "misses estimates", Multiplier: 1.8},
				{Phrase: "exceeds expectations", Multiplier: 1.8},
				{Phrase: "shock", Multiplier: 2.0},
				{Phrase: "unprecedented", Multiplier: 1.7},
				{Phrase: "sudden", Multiplier: 1.4},
				{Phrase: "abrupt", Multiplier: 1.4},
				{Phrase: "breaking", Multiplier: 1.3},
			},
			ExpectedKeywords: []KeywordWeight{
				{Phrase: "as expected", Multiplier: 0.4},
				{Phrase: "in line with", Multiplier: 0.4},
				{Phrase: "anticipated", Multiplier: 0.5},
				{Phrase: "scheduled", Multiplier: 0.6},
				{Phrase: "planned", Multiplier: 0.6},
			},
			SourceCredibility: []SourceWeight{
				{Name: "Bloomberg", Weight: 1.0},
				{Name: "Reuters", Weight: 1.0},
				{Name: "Wall Street Journal", Weight: 0.95},
				{Name: "Financial Times", Weight: 0.95},
				{Name: "CNBC", Weight: 0.85},
				{Name: "MarketWatch", Weight: 0.80},
				{Name: "Seeking Alpha", Weight: 0.70},
				{Name: "Yahoo Finance", Weight: 0.75},
				{Name: "Yahoo", Weight: 0.70},
				{Name: "Benzinga", Weight: 0.75},
				{Name: "PR Newswire", Weight: 0.60},
				{Name: "Business Wire", Weight: 0.60},
				{Name: "The Motley Fool", Weight: 0.50},
				{Name: "Motley Fool", Weight: 0.45},
			},
			DefaultCredibility:   0.5,
			RecencyHalfLifeHours: 6,
			RepeatNovelty:        0.2,
			MarketMovingKeywords: []string{
				// Federal Reserve & monetary policy
				"federal reserve", "fed", "jerome powell", "interest rate", "rate hike",
				"rate cut", "fomc", "monetary policy", "quantitative",
				// Economic indicators
				"inflation", "cpi", "consumer price", "pce", "jobs report",
				"unemployment", "nonfarm payroll", "gdp", "recession", "economic growth",
				// Indices
				"nasdaq", "nasdaq composite", "nasdaq-100", "tech stocks",
				"technology sector", "growth stocks", "index",
				// Geopolitical
				"trade war", "tariff", "china", "sanctions", "taiwan",
				"war", "conflict", "regulation",
				// Market structure
				"treasury", "bond yield", "volatility", "vix", "selloff",
				"rally", "correction", "bear market", "bull market",
				// Tech sector
				"ai", "artificial intelligence", "chip", "semiconductor",
				"cloud", "earnings", "tech regulation", "antitrust",
			},
			ExcludeKeywords: []string{
				"opinion", "column", "editorial", "commentary",
				"analyst says", "expert predicts", "chart analysis",
			},
		},
		Social: Social{
			Subreddits: []SourceWeight{
				{Name: "stocks", Weight: 0.85},
				{Name: "StockMarket", Weight: 0.85},
				{Name: "investing", Weight: 0.90},
				{Name: "wallstreetbets", Weight: 0.65},
				{Name: "options", Weight: 0.75},
				{Name: "DueDiligence", Weight: 0.90},
				{Name: "ValueInvesting", Weight: 0.90},
				{Name: "dividends", Weight: 0.85},
				{Name: "UndervaluedStocks", Weight: 0.80},
				{Name: "SPACs", Weight: 0.70},
				{Name: "pennystocks", Weight: 0.60},
				{Name: "RobinHood", Weight: 0.65},
				{Name: "trading", Weight: 0.75},
				{Name: "securityanalysis", Weight: 0.90},
				{Name: "EducatedInvesting", Weight: 0.85},
				{Name: "greeninvestor", Weight: 0.75},
				{Name: "investing_discussion", Weight: 0.80},
				{Name: "smallstreetbets", Weight: 0.65},
				{Name: "Weedstocks", Weight: 0.70},
				{Name: "stocktrader", Weight: 0.75},
			},
			DefaultCredibility: 0.5,
			RelevanceKeywords: []string{
				// Index & ETFs
				"nasdaq", "qqq", "nasdaq-100", "nasdaq composite", "tech stocks", "technology sector",
				// Constituents
				"aapl", "apple", "msft", "microsoft", "nvda", "nvidia", "googl", "google", "alphabet",
				"amzn", "amazon", "meta", "facebook", "tsla", "tesla", "avgo", "broadcom",
				"costco", "nflx", "netflix", "asml", "amd", "adbe", "adobe",
				"pepsi", "csco", "cisco", "tmus", "t-mobile", "intc", "intel",
				"cmcsa", "comcast", "qcom", "qualcomm", "intu", "intuit",
				// Macro
				"fed", "federal reserve", "interest rate", "rate hike", "rate cut", "fomc",
				"inflation", "cpi", "pce", "jobs report", "unemployment", "nonfarm payroll",
				"gdp", "recession", "bear market", "bull market", "correction",
				"treasury", "bond yield", "volatility", "vix",
				// Trading
				"breakout", "resistance", "support", "momentum", "rally", "selloff",
				"gap up", "gap down", "short squeeze", "gamma squeeze",
				"earnings", "earnings beat", "earnings miss", "guidance",
				"upgrade", "downgrade", "price target", "analyst",
				"day trading", "swing trade", "intraday", "pre-market", "after hours",
				"calls", "puts", "0dte", "implied volatility",
				"rsi", "macd", "bollinger", "moving average",
				"catalyst", "merger", "acquisition", "buyout", "ipo", "stock split",
				"buyback", "semiconductor", "chip", "artificial intelligence",
				"spy", "s&p 500", "dow", "russell", "nasdaq futures",
			},
			PostsPerSubreddit: 5,
			CommentsPerPost:   3,
			MinUpvotes:        5,
			MinPostAgeMinutes: 5,
			MinCommentScore:   2,
			MaxPosts:          20,
			MaxNovelty:        3.0,
		},
		Technical: Technical{
			IncludeOptional: false,
			RSIPeriod:       14,
			MACDFast:        12,
			MACDSlow:        26,
			MACDSignal:      9,
			BBPeriod:        20,
			BBStdDev:        2.0,
			StochK:          14,
			StochKSmooth:    3,
			StochD:          3,
			WilliamsPeriod:  14,
			ATRPeriod:       14,
		},
		Analyst: Analyst{
			ChangeSampleSize: 5,
		},
		Composite: Composite{
			Weights: contracts.DriverWeights{
				News:      0.35,
				Social:    0.20,
				Technical: 0.25,
				Analyst:   0.20,
			},
			DashboardThreshold: 30,
			HistoryStrong:      50,
			HistoryMild:        20,
		},
		Oracle: Oracle{
			MaxTextLength: 512,
		},
	}
}
