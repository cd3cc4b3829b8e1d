package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"biochat/internal/analytics"
	"biochat/internal/chat"
	"biochat/internal/config"
	"biochat/internal/conversation"
	"biochat/internal/dispatch"
	"biochat/internal/ident"
	"biochat/internal/session"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	var store session.Store
	if cfg.SessionsFilePath != "" {
		fs, err := session.NewFileStore(cfg.SessionsFilePath)
		if err != nil {
			log.Printf("failed to init session store: %v", err)
		} else {
			store = fs
		}
	}

	identity := ident.NewFileProvider(cfg.IdentityFilePath)
	ids := chat.UUIDGenerator{}
	client := dispatch.New(cfg.ChatEndpoint, identity, ids, cfg.HTTPTimeout())
	orch := conversation.New(client, store, ids)

	fmt.Println("biochat — AI bioinformatics assistant")
	fmt.Println("Commands: /new /sessions /open <n> /attach <path> [message] /usage /quit")

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			send(ctx, orch, line, nil)
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "/quit", "/exit":
			return
		case "/new":
			orch.NewChat()
			fmt.Println("started a new conversation")
		case "/sessions":
			printSessions(orch.Sessions())
		case "/open":
			if len(fields) != 2 {
				fmt.Println("usage: /open <n>")
				continue
			}
			openSession(orch, fields[1])
		case "/attach":
			if len(fields) < 2 {
				fmt.Println("usage: /attach <path> [message]")
				continue
			}
			message := "Please analyze this file."
			if len(fields) > 2 {
				message = strings.Join(fields[2:], " ")
			}
			attachAndSend(ctx, orch, fields[1], message)
		case "/usage":
			printUsage(store)
		default:
			fmt.Printf("unknown command: %s\n", fields[0])
		}
	}
}

func send(ctx context.Context, orch *conversation.Orchestrator, content string, files []dispatch.Attachment) {
	if err := orch.SendMessage(ctx, content, files); err != nil {
		fmt.Printf("send rejected: %v\n", err)
		return
	}
	msgs := orch.Messages()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	fmt.Printf("\n%s\n\n", last.Content)
	if md := last.Metadata; md != nil && md.LimitStatus != "" && md.LimitStatus != chat.LimitOK {
		fmt.Printf("[conversation limit: %s]\n", md.LimitStatus)
	}
}

func attachAndSend(ctx context.Context, orch *conversation.Orchestrator, path, message string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("cannot read %s: %v\n", path, err)
		return
	}
	name := filepath.Base(path)
	att := dispatch.Attachment{
		Name:     name,
		MimeType: mime.TypeByExtension(filepath.Ext(name)),
		Data:     data,
	}
	send(ctx, orch, message, []dispatch.Attachment{att})
}

func printSessions(sessions []session.Session) {
	if len(sessions) == 0 {
		fmt.Println("no stored sessions")
		return
	}
	for i, s := range sessions {
		fmt.Printf("%d. %s (%s, %d messages)\n", i+1, s.Title, s.Timestamp, len(s.Messages))
	}
}

func openSession(orch *conversation.Orchestrator, arg string) {
	n, err := strconv.Atoi(arg)
	sessions := orch.Sessions()
	if err != nil || n < 1 || n > len(sessions) {
		fmt.Println("no such session")
		return
	}
	s := sessions[n-1]
	orch.SwitchToSession(s)
	fmt.Printf("switched to %q (%d messages)\n", s.Title, len(s.Messages))
}

func printUsage(store session.Store) {
	if store == nil {
		fmt.Println("no session store configured")
		return
	}
	sessions, err := store.LoadAll()
	if err != nil {
		fmt.Printf("cannot load sessions: %v\n", err)
		return
	}
	fmt.Print(analytics.Summarize(sessions).ReportSummary())
}
