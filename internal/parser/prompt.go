package parser

const parseSystemPrompt = `You are a financial document parser. Your task is to extract ALL transactions from one page of a bank or credit card statement.

IMPORTANT RULES:
1. Extract EVERY transaction line item you find - do not skip any
2. Look for lines that have a date, description, and dollar amount
3. Dates in the document may appear as MM/DD, MM/DD/YY, or MM/DD/YYYY
4. OUTPUT dates in standardized format: "YYYY-MM-DD" if year is available, or "MM-DD" if only month/day
5. Amounts may have $ symbols and commas - extract just the number
6. Negative amounts or credits should be negative numbers
7. DO include: purchases, payments, credits, refunds, fees
8. Do NOT include:
   - Headers, footers, page numbers
   - Account summaries, totals, balances
   - Payment due dates, minimum payment info
   - Interest charges, APR information
   - Reward points summaries
   - Promotional text or advertisements`

const parseUserPrompt = `Extract ALL transactions from this statement page.

For each transaction, extract:
- date: The transaction date in format "YYYY-MM-DD" (or "MM-DD" if year unavailable)
- description: The merchant name or transaction description
- amount: The dollar amount as a number (positive for charges, negative for payments/credits)

Be thorough - extract every single transaction line item. Do not summarize or skip any.

Page text:
`
