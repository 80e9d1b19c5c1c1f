package extract

import (
	"strings"

	"github.com/moumensaid/smartfin/internal/domain"
)

// The prompts pin the model to the exact JSON schema of domain.StatementRecord
// so the response unmarshals directly. Each document type gets its own
// instructions; the schema block is shared.

const schemaBlock = `The desired JSON schema is as follows:
{
  "document_type": "%TYPE%",
  "bank_name": "string or null",
  "agency": "string or null",
  "account_holder": { "name": "string or null", "address": "string or null" },
  "account_details": { "account_number": "string or null", "full_bank_id": "string or null", "currency": "string or null" },
  "statement_period": { "start_date": "YYYY-MM-DD or null", "end_date": "YYYY-MM-DD or null" },
  "summary": { "opening_balance": "float or null", "closing_balance": "float or null", "total_debits": "float or null", "total_credits": "float or null" },
  "transactions": [
    { "transaction_date": "YYYY-MM-DD or null", "value_date": "YYYY-MM-DD or null", "description": "string", "debit": "float or null", "credit": "float or null" }
  ]
}`

const promptFooter = `
If a piece of information is not found, use null.
Your response MUST be ONLY the JSON object, without any surrounding text, explanations, or markdown formatting like ` + "```json" + `.`

const monthlyStatementPrompt = `Analyze the provided content, which is a monthly bank statement.
Extract all information and structure it as a single JSON object.
The currency is DIRHAM (MAD). All monetary values should be floats.
Dates must be in YYYY-MM-DD format.

` + schemaBlock + promptFooter

const transactionListPrompt = `Analyze the provided content, which is a bank transaction list.
This document shows recent transactions but may not have complete statement period info.
Extract all information and structure it as a single JSON object.
The currency is DIRHAM (MAD). All monetary values should be floats.
Dates must be in YYYY-MM-DD format.

` + schemaBlock + `

For transaction lists:
- Calculate total_debits and total_credits from the transaction amounts
- If there is a "Solde réel" mentioned, use it as closing_balance
- Extract the period from "Mouvement du compte du X au Y" if available
- Opening balance should be null for transaction lists
` + promptFooter

const unknownDocumentPrompt = `Analyze the provided bank document content.
Try to extract as much financial information as possible and structure it as a JSON object.
The currency is DIRHAM (MAD). All monetary values should be floats.
Dates must be in YYYY-MM-DD format.

` + schemaBlock + `

Extract any transactions you can find, even if the format is different.
` + promptFooter

// promptFor returns the extraction prompt matching the detected document
// type, with the schema's document_type placeholder filled in.
func promptFor(docType string) string {
	var prompt string
	switch docType {
	case domain.DocTypeMonthlyStatement:
		prompt = monthlyStatementPrompt
	case domain.DocTypeTransactionList:
		prompt = transactionListPrompt
	default:
		prompt = unknownDocumentPrompt
		docType = domain.DocTypeUnknown
	}
	return strings.ReplaceAll(prompt, "%TYPE%", docType)
}
