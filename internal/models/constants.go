package models

const (
	ThinkTag = `(?s)<think>.*?</think>`
)

var (
	AnswerPromptTemplate = `Answer the following question based only on the provided context.
Think step by step before providing a detailed answer.
If the context does not contain the answer, say that you cannot answer from the provided documents.
<context>
%s
</context>
Question: %s`

	RefinePromptTemplate = `You are filtering the results of a document search engine that uses
vector similarity search. You are given a user query and the shortlisted
documents as a JSON object mapping the document path to the document text.
Go through every document and decide which document or documents the user
is actually asking for in the query.
Respond with a JSON array containing only the paths of the matching
documents, for example ["docs/a.pdf","docs/b.pdf"]. Your output is parsed
by a program, so respond with the JSON array alone and no other text.
Query: %s
Documents: %s`
)
