package message

import (
	"regexp"
)

// Chat roles used by the support assistant.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the support conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const assistantGreeting = "Ciao! Sono l'assistente virtuale FastSeller. Se hai domande su pagamenti, spedizioni o account, chiedimi pure."

var assistantRules = []struct {
	pattern *regexp.Regexp
	reply   string
}{
	{
		regexp.MustCompile(`(?i)spedizion|consegna|tracking|corriere`),
		"Per le spedizioni utilizziamo corrieri tracciati. Trovi il codice tracking nel riepilogo ordine entro 24 ore dalla conferma del venditore.",
	},
	{
		regexp.MustCompile(`(?i)pagament|carta|wallet|saldo|rimbors|refund`),
		"Per i pagamenti supportiamo carta, PayPal, bonifico e saldo FastSeller. Il saldo viene aggiornato automaticamente dopo la vendita di un oggetto.",
	},
	{
		regexp.MustCompile(`(?i)account|login|password|accesso`),
		"Se hai problemi di accesso puoi reimpostare la password dalla pagina \"Password dimenticata\" oppure contattarci via email per assistenza.",
	},
	{
		regexp.MustCompile(`(?i)ordine|order|stato|delayed`),
		"Per verificare lo stato di un ordine vai nella dashboard e controlla la sezione \"I miei ordini\". Se serve, posso aiutarti a scrivere un messaggio al venditore.",
	},
	{
		regexp.MustCompile(`(?i)problema|bug|errore`),
		"Mi dispiace per il problema! Prova a indicarmi più dettagli possibili, così posso suggerirti la procedura corretta oppure inoltrare la segnalazione al team tecnico.",
	},
}

// AssistantReply produces the deterministic canned response for the latest
// user message in the history. An empty history, or one with no user turn,
// gets the greeting.
func AssistantReply(history []ChatMessage) string {
	var last *ChatMessage
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			last = &history[i]
			break
		}
	}
	if last == nil {
		return assistantGreeting
	}

	for _, rule := range assistantRules {
		if rule.pattern.MatchString(last.Content) {
			return rule.reply
		}
	}
	if len(last.Content) < 6 {
		return "Potresti darmi qualche dettaglio in più? Così riesco a risponderti meglio."
	}
	return "Sto analizzando la richiesta. Se non trovi subito la risposta, puoi comunque scriverci a support@fastseller.it con le stesse informazioni."
}
