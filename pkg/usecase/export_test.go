package usecase

// RetryCount exposes the retry counter for tests
func (uc *ChatUseCase) RetryCount() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.retryCount
}
