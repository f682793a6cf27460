// meta/meta.go
package meta

// GRID_SIZE defines the number of boxes per side.
const GRID_SIZE = 3

// EPISODES defines the number of self-play games in a training run.
const EPISODES = 10000

// LEARNING_RATE defines the default alpha of the Q-update.
const LEARNING_RATE = 0.1

// DISCOUNT_FACTOR defines the default gamma of the Q-update.
const DISCOUNT_FACTOR = 0.9

// EXPLORATION_RATE defines the default epsilon during training.
const EXPLORATION_RATE = 0.1

// TUNE_ITERATIONS defines the number of random hyperparameter draws.
const TUNE_ITERATIONS = 10

// TUNE_TRAIN_EPISODES defines the training games per tuning trial.
const TUNE_TRAIN_EPISODES = 1000

// TUNE_TEST_EPISODES defines the evaluation games per tuning trial.
const TUNE_TEST_EPISODES = 200

// GO_ROUTINES defines the number of tuning trials run at once.
const GO_ROUTINES = 4

const CONFIG_FILE = "boxes.yml"
const POLICY_PATH = "policies/policy.json"
const LINES_LOG = "logs/lines.csv"
const GAME_LOG = "logs/game.log"
const TUNING_RESULTS = "results/hyperparameter_tuning.csv"
