// Package seed holds the one-time quiz question seed set: three questions
// per level, levels 1 through 10, point values rising with difficulty.
package seed

import (
	"blurt-quest-service/internal/domain"
	"github.com/google/uuid"
)

// Question categories.
const (
	CategoryGeneral    = "general"
	CategoryTechnology = "technology"
	CategoryCrypto     = "crypto"
	CategoryBlurt      = "blurt"
)

// Questions returns the seed set with fresh IDs. The slice order is the
// canonical per-level question order.
func Questions() []domain.Question {
	questions := []domain.Question{
		// Level 1 - General Knowledge
		{Level: 1, Prompt: "What is the largest planet in our solar system?", Options: []string{"Earth", "Jupiter", "Saturn", "Mars"}, CorrectAnswer: 1, Points: 10, Category: CategoryGeneral},
		{Level: 1, Prompt: "Which element has the chemical symbol 'O'?", Options: []string{"Gold", "Silver", "Oxygen", "Iron"}, CorrectAnswer: 2, Points: 10, Category: CategoryGeneral},
		{Level: 1, Prompt: "What is the capital of France?", Options: []string{"London", "Berlin", "Madrid", "Paris"}, CorrectAnswer: 3, Points: 10, Category: CategoryGeneral},

		// Level 2 - Technology
		{Level: 2, Prompt: "What does 'HTTP' stand for?", Options: []string{"HyperText Transfer Protocol", "High Tech Transfer Protocol", "Home Tool Transfer Protocol", "Hyper Transfer Text Protocol"}, CorrectAnswer: 0, Points: 15, Category: CategoryTechnology},
		{Level: 2, Prompt: "Which programming language is known as the 'language of the web'?", Options: []string{"Python", "Java", "JavaScript", "C++"}, CorrectAnswer: 2, Points: 15, Category: CategoryTechnology},
		{Level: 2, Prompt: "What does 'AI' commonly stand for?", Options: []string{"Automated Intelligence", "Artificial Intelligence", "Advanced Integration", "Application Interface"}, CorrectAnswer: 1, Points: 15, Category: CategoryTechnology},

		// Level 3 - Crypto & Blockchain
		{Level: 3, Prompt: "What is the first cryptocurrency?", Options: []string{"Ethereum", "Litecoin", "Bitcoin", "Ripple"}, CorrectAnswer: 2, Points: 20, Category: CategoryCrypto},
		{Level: 3, Prompt: "What does 'DeFi' stand for?", Options: []string{"Decentralized Finance", "Digital Finance", "Distributed Finance", "Direct Finance"}, CorrectAnswer: 0, Points: 20, Category: CategoryCrypto},
		{Level: 3, Prompt: "What is a blockchain?", Options: []string{"A type of database", "A distributed ledger", "A chain of blocks containing data", "All of the above"}, CorrectAnswer: 3, Points: 20, Category: CategoryCrypto},

		// Level 4 - Blurt Basics
		{Level: 4, Prompt: "Blurt is a fork of which blockchain?", Options: []string{"Bitcoin", "Ethereum", "Steem", "Hive"}, CorrectAnswer: 2, Points: 25, Category: CategoryBlurt},
		{Level: 4, Prompt: "What is the native token of the Blurt blockchain?", Options: []string{"BLURT", "STEEM", "HIVE", "BTC"}, CorrectAnswer: 0, Points: 25, Category: CategoryBlurt},
		{Level: 4, Prompt: "Blurt focuses on which primary activity?", Options: []string{"Gaming", "Social blogging", "DeFi", "NFTs"}, CorrectAnswer: 1, Points: 25, Category: CategoryBlurt},

		// Level 5 - Mixed Advanced
		{Level: 5, Prompt: "What is the process of validating transactions on a blockchain called?", Options: []string{"Mining", "Staking", "Consensus", "All of the above"}, CorrectAnswer: 3, Points: 30, Category: CategoryCrypto},
		{Level: 5, Prompt: "Which of these is NOT a programming paradigm?", Options: []string{"Object-Oriented", "Functional", "Procedural", "Blockchain"}, CorrectAnswer: 3, Points: 30, Category: CategoryTechnology},
		{Level: 5, Prompt: "What does 'WWW' stand for?", Options: []string{"World Wide Web", "World Wide Wait", "World Wide Width", "World Wide Work"}, CorrectAnswer: 0, Points: 30, Category: CategoryTechnology},

		// Level 6 - Environment & Tech
		{Level: 6, Prompt: "What is the main greenhouse gas responsible for climate change?", Options: []string{"Oxygen", "Nitrogen", "Carbon Dioxide", "Helium"}, CorrectAnswer: 2, Points: 35, Category: CategoryGeneral},
		{Level: 6, Prompt: "Which renewable energy source uses the sun?", Options: []string{"Wind", "Solar", "Hydro", "Geothermal"}, CorrectAnswer: 1, Points: 35, Category: CategoryGeneral},
		{Level: 6, Prompt: "What does 'IoT' stand for?", Options: []string{"Internet of Things", "Integration of Technology", "Interface of Tools", "Internet of Technology"}, CorrectAnswer: 0, Points: 35, Category: CategoryTechnology},

		// Level 7 - Advanced Crypto
		{Level: 7, Prompt: "What is a smart contract?", Options: []string{"A legal document", "Self-executing code on blockchain", "A trading algorithm", "A mining contract"}, CorrectAnswer: 1, Points: 40, Category: CategoryCrypto},
		{Level: 7, Prompt: "What is 'HODL' in crypto?", Options: []string{"Hold On for Dear Life", "A typo for 'hold'", "A trading strategy", "All of the above"}, CorrectAnswer: 3, Points: 40, Category: CategoryCrypto},
		{Level: 7, Prompt: "What is a private key in cryptocurrency?", Options: []string{"Public address", "Secret key for wallet access", "Transaction ID", "Block hash"}, CorrectAnswer: 1, Points: 40, Category: CategoryCrypto},

		// Level 8 - Blurt Advanced
		{Level: 8, Prompt: "What is the block time for Blurt blockchain?", Options: []string{"1 minute", "3 seconds", "10 minutes", "30 seconds"}, CorrectAnswer: 1, Points: 45, Category: CategoryBlurt},
		{Level: 8, Prompt: "Blurt allows content creators to earn through?", Options: []string{"Proof of Work", "Proof of Stake", "Proof of Brain", "Proof of Authority"}, CorrectAnswer: 2, Points: 45, Category: CategoryBlurt},
		{Level: 8, Prompt: "What makes Blurt different from Steem?", Options: []string{"No downvoting", "Faster blocks", "Different rewards", "All of the above"}, CorrectAnswer: 3, Points: 45, Category: CategoryBlurt},

		// Level 9 - Expert Level
		{Level: 9, Prompt: "What is the Byzantine Generals Problem?", Options: []string{"A historical battle", "A consensus problem in distributed systems", "A cryptographic puzzle", "A game theory concept"}, CorrectAnswer: 1, Points: 50, Category: CategoryCrypto},
		{Level: 9, Prompt: "Which consensus mechanism does Blurt use?", Options: []string{"Proof of Work", "Proof of Stake", "Delegated Proof of Stake", "Proof of Authority"}, CorrectAnswer: 2, Points: 50, Category: CategoryBlurt},
		{Level: 9, Prompt: "What is sharding in blockchain?", Options: []string{"Breaking chains", "Splitting network into smaller pieces", "Creating forks", "Mining technique"}, CorrectAnswer: 1, Points: 50, Category: CategoryCrypto},

		// Level 10 - Master Level
		{Level: 10, Prompt: "What is the trilemma in blockchain?", Options: []string{"Speed, Cost, Security", "Scalability, Security, Decentralization", "Privacy, Speed, Cost", "Consensus, Mining, Staking"}, CorrectAnswer: 1, Points: 100, Category: CategoryCrypto},
		{Level: 10, Prompt: "Who can become a witness on Blurt?", Options: []string{"Only developers", "Anyone with enough votes", "Only founders", "Only miners"}, CorrectAnswer: 1, Points: 100, Category: CategoryBlurt},
		{Level: 10, Prompt: "What is the ultimate goal of blockchain technology?", Options: []string{"Make money", "Decentralization and trustlessness", "Replace banks", "Create cryptocurrencies"}, CorrectAnswer: 1, Points: 100, Category: CategoryCrypto},
	}

	for i := range questions {
		questions[i].ID = uuid.NewString()
	}
	return questions
}
