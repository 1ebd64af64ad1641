package config

type WorkerKeyStruct struct {
	RewardPayoutQueue string
}

var WorkerKey = &WorkerKeyStruct{
	RewardPayoutQueue: "reward_payout_queue",
}
