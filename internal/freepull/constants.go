package freepull

// GoldenPullRate is the chance a free pull comes up golden.
const GoldenPullRate = 0.02

// Reward payloads per rarity band. A golden pull overrides the shard amount
// and completes its product outright.
const (
	PointsIcon   = 50
	PointsRare   = 150
	PointsGrail  = 400
	PointsMythic = 1000

	ShardsIcon   = 5
	ShardsRare   = 10
	ShardsGrail  = 25
	ShardsMythic = 50
)

// Log messages
const (
	LogMsgFreePullClaimed = "Daily free pull claimed"
	LogMsgFreePullRefused = "Daily free pull already taken"
)
