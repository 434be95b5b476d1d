package queuevalues

// Queue ids for the ranked queues.
const (
	RankedSolo = 420
	RankedFlex = 440
)

var RankedQueueValue = map[int]string{
	RankedSolo: "RANKED_SOLO_5x5",
	RankedFlex: "RANKED_FLEX_SR",
}

// Match type filter accepted by the match history endpoint.
const RankedMatchType = "ranked"
