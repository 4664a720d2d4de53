// Package assistant implements the dashboard's rule-based chat helper: an
// ordered keyword table picks a canned reply, and a per-project session log
// keeps the conversation for the lifetime of the process.
package assistant

import (
	"fmt"
	"strings"
)

// Reply is the responder output for one user message.
type Reply struct {
	Text        string
	Suggestions []string
	ActionItems []string
}

// rule couples substring predicates with a canned reply. Rules are
// evaluated top to bottom; the first match wins.
type rule struct {
	keywords []string
	reply    Reply
}

var rules = []rule{
	{
		keywords: []string{"deploy", "deployment"},
		reply: Reply{
			Text: "I can help you deploy your project! Here is the standard rollout:\n" +
				"1. **Verify your CI/CD pipeline** is configured\n" +
				"- You can check the setup progress in your project dashboard\n" +
				"2. **Review environment variables** for every application\n" +
				"3. **Deploy** from the project page\n" +
				"Would you like me to guide you through the deployment process?",
			Suggestions: []string{
				"How do I set up CI/CD?",
				"Show me the deployment checklist",
			},
			ActionItems: []string{
				"Configure the CI/CD pipeline",
				"Run a production deploy",
			},
		},
	},
	{
		keywords: []string{"error", "issue", "problem"},
		reply: Reply{
			Text: "I'll help you troubleshoot the issue. Can you provide more details about " +
				"the error you're experiencing? You can also check the **Warnings** section " +
				"in your project analysis for potential issues.",
			Suggestions: []string{
				"Show me the project warnings",
				"My deployment is failing",
			},
			ActionItems: []string{
				"Review the Warnings section of the latest analysis",
			},
		},
	},
	{
		keywords: []string{"environment", "env"},
		reply: Reply{
			Text: "To configure environment variables, go to the **Environment Variables** tab " +
				"in your project. You can add, edit, or remove variables for each application " +
				"in your project. Remember to keep sensitive data secure!",
			Suggestions: []string{
				"Which variables does each app need?",
				"How are secrets stored?",
			},
			ActionItems: []string{
				"Add environment variables for each detected application",
			},
		},
	},
	{
		keywords: []string{"performance", "optimize"},
		reply: Reply{
			Text: "Based on your project analysis, I see some performance optimization opportunities:\n" +
				"- **Build optimization** such as tree shaking and code splitting\n" +
				"- **Caching strategies** for frequently accessed data\n" +
				"- **CDN usage** for static assets\n" +
				"Check the **Performance** section of your analysis for the full recommendations.",
			Suggestions: []string{
				"Analyze my bundle size",
				"What caching should I use?",
			},
			ActionItems: []string{
				"Review the Performance section of the analysis",
			},
		},
	},
	{
		keywords: []string{"security"},
		reply: Reply{
			Text: "Security is important! Your project analysis shows some security considerations:\n" +
				"1. **Use HTTPS** everywhere\n" +
				"2. **Implement proper authentication**\n" +
				"3. **Keep dependencies up to date**\n" +
				"Check the **Infrastructure** section for security details.",
			Suggestions: []string{
				"Run a security scan",
				"Show detected vulnerabilities",
			},
			ActionItems: []string{
				"Switch remaining HTTP URLs to HTTPS",
				"Review the Infrastructure security findings",
			},
		},
	},
	{
		keywords: []string{"ci/cd", "pipeline"},
		reply: Reply{
			Text: "Your CI/CD pipeline helps automate deployments. I can set up GitHub Actions " +
				"for you with **build**, **test**, and **deploy** workflows. Would you like me " +
				"to create a PR with the pipeline configuration?",
			Suggestions: []string{
				"Create the pipeline PR",
				"What does the workflow run?",
			},
			ActionItems: []string{
				"Open a pull request with the GitHub Actions workflow",
			},
		},
	},
	{
		keywords: []string{"hello", "hi"},
		reply: Reply{
			Text: "Hello! I'm your OmniInfra AI assistant. I can help you with deployments, " +
				"troubleshooting, environment configuration, and infrastructure optimization. " +
				"How can I assist you today?",
			Suggestions: []string{
				"Help me deploy my project",
				"Check my setup progress",
			},
		},
	},
}

// Respond picks the canned reply for a message. It is a pure function:
// rules are tested in order against the lowercased message and the first
// substring match wins; anything else falls through to the default reply,
// which echoes the message back.
func Respond(message string) Reply {
	lower := strings.ToLower(message)
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(lower, keyword) {
				return r.reply
			}
		}
	}
	return defaultReply(message)
}

func defaultReply(message string) Reply {
	return Reply{
		Text: fmt.Sprintf("I understand you're asking about \"%s\". I can help you with deployment, "+
			"environment configuration, CI/CD pipelines, performance optimization, and security "+
			"best practices. What specific aspect would you like to explore?", message),
		Suggestions: []string{
			"Help me deploy my project",
			"Optimize performance",
			"Review security",
		},
	}
}
